// Package attendance implements the enrollment and matching pipelines.
// Both are sequential batch jobs: walk image files, call the face analysis
// service, compare embeddings against the enrolled roster, and write results
// through the persistence layer.
package attendance

import (
	"path/filepath"
	"strings"

	"github.com/kozaktomas/attendance-marker/internal/config"
	"github.com/kozaktomas/attendance-marker/internal/database"
	"github.com/kozaktomas/attendance-marker/internal/facerec"
)

// Service runs the attendance pipelines. The detector is injected so tests
// can substitute a fake; no hidden global model state.
type Service struct {
	cfg      *config.Config
	store    *database.Store
	detector facerec.Detector
}

// NewService creates a pipeline service.
func NewService(cfg *config.Config, store *database.Store, detector facerec.Detector) *Service {
	return &Service{
		cfg:      cfg,
		store:    store,
		detector: detector,
	}
}

// isImageFile reports whether the file name carries a recognized image
// extension (case-insensitive).
func (s *Service) isImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range s.cfg.Matching.ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
