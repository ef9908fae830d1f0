package attendance

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/kozaktomas/attendance-marker/internal/config"
	"github.com/kozaktomas/attendance-marker/internal/database"
	"github.com/kozaktomas/attendance-marker/internal/facerec"
)

// fakeDetector maps image file contents to canned detections. The pipelines
// never decode images themselves for detection, so test "photos" can be
// arbitrary bytes.
type fakeDetector struct {
	faces map[string][]facerec.Face
	err   error
}

func (d *fakeDetector) DetectFaces(_ context.Context, imageData []byte) ([]facerec.Face, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.faces[string(imageData)], nil
}

// testService builds a Service backed by a temp-file store and the given
// fake detector, with all output directories under t.TempDir().
func testService(t *testing.T, detector facerec.Detector) (*Service, *database.Store) {
	t.Helper()

	cfg := config.Load()
	cfg.Storage.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.Storage.TempDir = filepath.Join(t.TempDir(), "tmp")

	store, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewService(cfg, store, detector), store
}

// writeFile writes content to dir/name, creating parents as needed.
func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// testJPEG encodes a solid-color JPEG of the given size. A trailing marker
// byte sequence is appended to make contents unique per call without
// affecting decodability.
func testJPEG(t *testing.T, width, height int, marker byte) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 128, G: 64, B: 32, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return append(buf.Bytes(), 0xFF, 0xD9, marker)
}

// face builds a detection with the given embedding and bounding box.
func face(emb []float32, bbox []float64) facerec.Face {
	return facerec.Face{Embedding: emb, BBox: bbox, DetScore: 0.95}
}
