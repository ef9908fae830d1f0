package attendance

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

// buildZip writes a zip file at path with the given name -> content entries.
// A name ending in "/" creates a directory entry.
func buildZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		if name[len(name)-1] == '/' {
			if _, err := zw.Create(name); err != nil {
				t.Fatal(err)
			}
			continue
		}
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestExtractZip(t *testing.T) {
	tmp := t.TempDir()
	zipPath := filepath.Join(tmp, "faces.zip")
	buildZip(t, zipPath, map[string]string{
		"21045001_aman_meena/":      "",
		"21045001_aman_meena/a.jpg": "photo-a",
		"21045002_priya/b.jpg":      "photo-b",
	})

	dest := filepath.Join(tmp, "out")
	if err := ExtractZip(zipPath, dest); err != nil {
		t.Fatalf("ExtractZip failed: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dest, "21045001_aman_meena", "a.jpg"))
	if err != nil {
		t.Fatalf("extracted file missing: %v", err)
	}
	if string(got) != "photo-a" {
		t.Errorf("extracted content = %q, want %q", got, "photo-a")
	}
	// Parent directories are created for entries without an explicit dir.
	if _, err := os.Stat(filepath.Join(dest, "21045002_priya", "b.jpg")); err != nil {
		t.Errorf("nested entry not extracted: %v", err)
	}
}

func TestExtractZipRejectsPathTraversal(t *testing.T) {
	tmp := t.TempDir()
	zipPath := filepath.Join(tmp, "evil.zip")
	buildZip(t, zipPath, map[string]string{
		"../escape.txt": "pwned",
	})

	dest := filepath.Join(tmp, "out")
	if err := ExtractZip(zipPath, dest); err == nil {
		t.Fatal("expected traversal entry to be rejected")
	}
	if _, err := os.Stat(filepath.Join(tmp, "escape.txt")); !os.IsNotExist(err) {
		t.Error("traversal entry was written outside the destination")
	}
}

func TestExtractZipInvalidArchive(t *testing.T) {
	tmp := t.TempDir()
	zipPath := filepath.Join(tmp, "broken.zip")
	if err := os.WriteFile(zipPath, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ExtractZip(zipPath, filepath.Join(tmp, "out")); err == nil {
		t.Fatal("expected error for invalid archive")
	}
}
