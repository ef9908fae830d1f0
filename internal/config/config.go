package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Database DatabaseConfig
	FaceAPI  FaceAPIConfig
	Storage  StorageConfig
	Web      WebConfig
	Matching MatchingConfig
}

type DatabaseConfig struct {
	Path string // SQLite database file path
}

type FaceAPIConfig struct {
	URL   string // face analysis server, defaults to http://localhost:8000
	Model string // model name for reference only, defaults to buffalo_l
	Dim   int    // embedding dimension, defaults to 512
}

type StorageConfig struct {
	DataDir string // root for enrollment images and attendance crops
	TempDir string // scratch space for uploaded archives
}

// FacesDir is where extracted enrollment images live, one subtree per
// class/section.
func (c *StorageConfig) FacesDir() string {
	return filepath.Join(c.DataDir, "faces")
}

// CropsDir is the root of the dated attendance face crop tree.
func (c *StorageConfig) CropsDir() string {
	return filepath.Join(c.DataDir, "attendance_crops")
}

type WebConfig struct {
	Host string
	Port int
}

// MatchingConfig carries the matching pipeline defaults, loaded from the
// embedded defaults.yaml.
type MatchingConfig struct {
	DefaultThreshold     float64  `yaml:"default_threshold"`
	CropPadding          int      `yaml:"crop_padding"`
	DetectTimeoutSeconds int      `yaml:"detect_timeout_seconds"`
	ImageExtensions      []string `yaml:"image_extensions"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envString reads an environment variable with a fallback.
func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func Load() *Config {
	var defaults struct {
		Matching MatchingConfig `yaml:"matching"`
	}
	if err := yaml.Unmarshal(defaultsYAML, &defaults); err != nil {
		// This is an embedded file so this error should never happen in practice.
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	return &Config{
		Database: DatabaseConfig{
			Path: envString("DATABASE_PATH", "attendance.db"),
		},
		FaceAPI: FaceAPIConfig{
			URL:   os.Getenv("FACE_API_URL"),
			Model: os.Getenv("FACE_API_MODEL"),
			Dim:   envInt("FACE_EMBEDDING_DIM", 512),
		},
		Storage: StorageConfig{
			DataDir: envString("DATA_DIR", "data"),
			TempDir: envString("TEMP_DIR", "temp_uploads"),
		},
		Web: WebConfig{
			Host: envString("WEB_HOST", "0.0.0.0"),
			Port: envInt("WEB_PORT", 8080),
		},
		Matching: defaults.Matching,
	}
}
