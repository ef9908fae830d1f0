package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kozaktomas/attendance-marker/internal/attendance"
	"github.com/kozaktomas/attendance-marker/internal/config"
	"github.com/kozaktomas/attendance-marker/internal/database"
	"github.com/kozaktomas/attendance-marker/internal/facerec"
)

// newLocalService wires up a store and pipeline service for CLI commands
// that run the pipelines directly against local directories.
func newLocalService(cfg *config.Config) (*attendance.Service, *database.Store, error) {
	store, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	detector := facerec.NewClient(cfg.FaceAPI.URL, cfg.FaceAPI.Model,
		time.Duration(cfg.Matching.DetectTimeoutSeconds)*time.Second)

	return attendance.NewService(cfg, store, detector), store, nil
}

func outputJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
