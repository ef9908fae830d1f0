package attendance

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// rollNoPattern accepts letters, digits, hyphens, and underscores.
var rollNoPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// unsafeFilenameChars matches every run of characters not allowed in crop
// filenames.
var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ParseStudentFolder extracts the roll number and student name from a folder
// named <roll_no>_<name...>. The split happens on the first underscore only;
// the remainder, including further underscores, is the name.
func ParseStudentFolder(folderName string) (rollNo, name string, err error) {
	parts := strings.SplitN(folderName, "_", 2)
	if len(parts) < 2 {
		return "", "", fmt.Errorf("folder %q does not contain underscore separator", folderName)
	}

	rollNo = strings.TrimSpace(parts[0])
	name = strings.TrimSpace(parts[1])

	if !rollNoPattern.MatchString(rollNo) {
		return "", "", fmt.Errorf("invalid roll number format %q", rollNo)
	}
	if name == "" {
		return "", "", fmt.Errorf("empty name after roll number")
	}

	return rollNo, name, nil
}

// removeDiacritics strips diacritical marks from a string (e.g. "José" -> "Jose").
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// sanitizeFilename makes a string safe for use in crop filenames: diacritics
// stripped, every other disallowed run collapsed to a single underscore.
func sanitizeFilename(s string) string {
	return unsafeFilenameChars.ReplaceAllString(removeDiacritics(s), "_")
}
