package attendance

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/kozaktomas/attendance-marker/internal/database"
	"github.com/kozaktomas/attendance-marker/internal/embedding"
)

// MarkedStudent is one student recognized in a matching run.
type MarkedStudent struct {
	RollNo     string  `json:"roll_no"`
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`
}

// MarkResult is the outcome of one matching run.
type MarkResult struct {
	Marked []MarkedStudent `json:"marked_students"`
}

// MarkParams describes one matching run over a directory of unlabeled
// classroom photos.
type MarkParams struct {
	Dir       string
	ClassName string
	Section   string
	Subject   string
	Threshold float64

	// OnPhoto, when set, is called once per image file before detection.
	OnPhoto func(path string)
}

// Mark runs the matching pipeline: every detected face is compared against
// the roster by dot product (both sides unit length), the best score at or
// above the threshold marks that student present, at most once per run.
// Students marked in prior runs are eligible again; the dedup set is scoped
// to this invocation only.
func (s *Service) Mark(ctx context.Context, p MarkParams) (*MarkResult, error) {
	roster, err := s.store.GetStudents(ctx, p.ClassName, p.Section, p.Subject)
	if err != nil {
		return nil, err
	}

	result := &MarkResult{Marked: []MarkedStudent{}}
	alreadyMarked := make(map[string]bool)

	walkErr := filepath.WalkDir(p.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !s.isImageFile(d.Name()) {
			return nil
		}
		if p.OnPhoto != nil {
			p.OnPhoto(path)
		}
		return s.markPhoto(ctx, path, p, roster, alreadyMarked, result)
	})
	if walkErr != nil {
		return nil, fmt.Errorf("matching run failed: %w", walkErr)
	}

	return result, nil
}

// markPhoto processes one classroom photo: detect faces, match each against
// the roster, and record newly matched students.
func (s *Service) markPhoto(ctx context.Context, path string, p MarkParams, roster []database.RosterEntry, alreadyMarked map[string]bool, result *MarkResult) error {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("could not read photo %s: %v", path, err)
		return nil
	}

	faces, err := s.detector.DetectFaces(ctx, data)
	if err != nil {
		return fmt.Errorf("face detection failed for %s: %w", path, err)
	}

	for i := range faces {
		emb := embedding.Normalize(faces[i].Embedding)

		// Linear scan arg-max. The roster is ordered by roll number and the
		// comparison is strict, so an exact score tie resolves to the lowest
		// roll number.
		bestIdx := -1
		bestScore := 0.0
		for j := range roster {
			score := embedding.Dot(emb, roster[j].Embedding)
			if bestIdx == -1 || score > bestScore {
				bestIdx = j
				bestScore = score
			}
		}
		if bestIdx == -1 || bestScore < p.Threshold {
			continue
		}

		match := roster[bestIdx]
		if alreadyMarked[match.RollNo] {
			continue
		}
		alreadyMarked[match.RollNo] = true

		now := time.Now()
		if err := s.saveMatchCrop(data, faces[i].BBox, p, match, now); err != nil {
			// A failed crop is diagnostic output, not attendance data.
			log.Printf("could not save face crop for %s: %v", match.RollNo, err)
		}

		rec := database.AttendanceRecord{
			RollNo:          match.RollNo,
			StudentName:     match.Name,
			ClassName:       p.ClassName,
			Section:         p.Section,
			Subject:         p.Subject,
			SimilarityScore: bestScore,
			Date:            now.Format("2006-01-02"),
			Time:            now.Format("15:04:05.000"),
		}
		if err := s.store.SaveAttendance(ctx, rec); err != nil {
			return err
		}

		log.Printf("marked %s - %s (similarity %.4f)", match.RollNo, match.Name, bestScore)
		result.Marked = append(result.Marked, MarkedStudent{
			RollNo:     match.RollNo,
			Name:       match.Name,
			Similarity: bestScore,
		})
	}
	return nil
}

// saveMatchCrop writes the padded face crop for a match into the dated
// per-class output tree.
func (s *Service) saveMatchCrop(imageData []byte, bbox []float64, p MarkParams, match database.RosterEntry, now time.Time) error {
	cropDir := filepath.Join(s.cfg.Storage.CropsDir(), now.Format("2006-01-02"), p.ClassName, p.Section)
	if p.Subject != "" {
		cropDir = filepath.Join(cropDir, p.Subject)
	}
	if err := os.MkdirAll(cropDir, 0o755); err != nil {
		return fmt.Errorf("failed to create crop directory: %w", err)
	}

	// Millisecond-precision stamp keeps filenames unique within a run.
	stamp := now.Format("20060102_150405") + fmt.Sprintf("_%03d", now.Nanosecond()/int(time.Millisecond))
	filename := fmt.Sprintf("%s_%s_%s.jpg", match.RollNo, sanitizeFilename(match.Name), stamp)

	return saveFaceCrop(imageData, bbox, s.cfg.Matching.CropPadding, filepath.Join(cropDir, filename))
}
