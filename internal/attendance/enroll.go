package attendance

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/kozaktomas/attendance-marker/internal/database"
	"github.com/kozaktomas/attendance-marker/internal/embedding"
	"github.com/kozaktomas/attendance-marker/internal/facerec"
)

// EnrolledStudent is one successfully enrolled student.
type EnrolledStudent struct {
	RollNo          string `json:"roll_no"`
	Name            string `json:"name"`
	ImagesProcessed int    `json:"images_processed"`
}

// SkippedFolder records why a student folder was rejected.
type SkippedFolder struct {
	Folder string `json:"folder"`
	Reason string `json:"reason"`
}

// EnrollResult is the outcome of one enrollment batch.
type EnrollResult struct {
	Enrolled []EnrolledStudent `json:"enrolled_students"`
	Skipped  []SkippedFolder   `json:"skipped,omitempty"`
}

// EnrollParams describes one enrollment batch: a directory of per-student
// folders named <roll_no>_<name>, plus the class metadata stamped on every
// record.
type EnrollParams struct {
	Dir       string
	ClassName string
	Section   string
	Subject   string

	// OnFolder, when set, is called once per student folder before it is
	// processed. Used for CLI progress reporting.
	OnFolder func(folder string)
}

// Enroll processes every student folder under p.Dir. A folder either fully
// succeeds (one persisted record) or is fully skipped with a reason; a
// malformed folder never aborts the batch. Each enrollment commits
// independently, so a mid-batch failure loses only the unprocessed remainder.
func (s *Service) Enroll(ctx context.Context, p EnrollParams) (*EnrollResult, error) {
	entries, err := os.ReadDir(p.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read enrollment directory: %w", err)
	}

	result := &EnrollResult{Enrolled: []EnrolledStudent{}}
	processed := make(map[string]bool)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folder := entry.Name()
		if p.OnFolder != nil {
			p.OnFolder(folder)
		}

		rollNo, name, err := ParseStudentFolder(folder)
		if err != nil {
			log.Printf("skipping folder %q: %v", folder, err)
			result.Skipped = append(result.Skipped, SkippedFolder{Folder: folder, Reason: err.Error()})
			continue
		}

		// First occurrence wins within one batch.
		if processed[rollNo] {
			log.Printf("skipping folder %q: duplicate roll number %q", folder, rollNo)
			result.Skipped = append(result.Skipped, SkippedFolder{
				Folder: folder,
				Reason: fmt.Sprintf("duplicate roll number: %s", rollNo),
			})
			continue
		}
		processed[rollNo] = true

		folderPath := filepath.Join(p.Dir, folder)
		embeddings, err := s.collectFolderEmbeddings(ctx, folderPath)
		if err != nil {
			return nil, err
		}
		if len(embeddings) == 0 {
			log.Printf("no valid face embeddings for student %s (%s)", rollNo, name)
			result.Skipped = append(result.Skipped, SkippedFolder{
				Folder: folder,
				Reason: "no valid face embeddings found",
			})
			continue
		}

		// The canonical embedding is the normalized mean of the per-image
		// normalized embeddings.
		canonical := embedding.Normalize(embedding.Mean(embeddings))
		student := database.Student{
			RollNo:    rollNo,
			Name:      name,
			ClassName: p.ClassName,
			Section:   p.Section,
			Subject:   p.Subject,
			FacePath:  folderPath,
			Embedding: canonical,
		}
		if err := s.store.SaveStudent(ctx, student); err != nil {
			return nil, err
		}

		log.Printf("enrolled %s - %s (from %d images)", rollNo, name, len(embeddings))
		result.Enrolled = append(result.Enrolled, EnrolledStudent{
			RollNo:          rollNo,
			Name:            name,
			ImagesProcessed: len(embeddings),
		})
	}

	return result, nil
}

// collectFolderEmbeddings runs detection over every image in one student
// folder and returns the normalized embedding of the largest face per image.
// Unreadable files and zero-face images are skipped; detector failures abort.
func (s *Service) collectFolderEmbeddings(ctx context.Context, folderPath string) ([][]float32, error) {
	files, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read student folder: %w", err)
	}

	var embeddings [][]float32
	for _, file := range files {
		if file.IsDir() || !s.isImageFile(file.Name()) {
			continue
		}

		imgPath := filepath.Join(folderPath, file.Name())
		data, err := os.ReadFile(imgPath)
		if err != nil {
			log.Printf("could not read image %s: %v", imgPath, err)
			continue
		}

		faces, err := s.detector.DetectFaces(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("face detection failed for %s: %w", imgPath, err)
		}
		face := largestFace(faces)
		if face == nil {
			log.Printf("no face detected in image %s", imgPath)
			continue
		}

		embeddings = append(embeddings, embedding.Normalize(face.Embedding))
	}
	return embeddings, nil
}

// largestFace picks the detection with the largest bounding box area.
// Ties keep the face the detector returned first.
func largestFace(faces []facerec.Face) *facerec.Face {
	var best *facerec.Face
	var bestArea float64
	for i := range faces {
		if area := faces[i].BBoxArea(); best == nil || area > bestArea {
			best = &faces[i]
			bestArea = area
		}
	}
	return best
}
