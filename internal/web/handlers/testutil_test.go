package handlers

import (
	"archive/zip"
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/kozaktomas/attendance-marker/internal/attendance"
	"github.com/kozaktomas/attendance-marker/internal/config"
	"github.com/kozaktomas/attendance-marker/internal/database"
	"github.com/kozaktomas/attendance-marker/internal/facerec"
)

// fakeDetector maps image file contents to canned detections.
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

// testEnv bundles the config, store and service a handler test needs,
// with all storage under temp directories.
type testEnv struct {
	cfg     *config.Config
	store   *database.Store
	service *attendance.Service
}

func newTestEnv(t *testing.T, detector facerec.Detector) *testEnv {
	t.Helper()

	cfg := config.Load()
	cfg.Storage.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.Storage.TempDir = filepath.Join(t.TempDir(), "tmp")

	store, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return &testEnv{
		cfg:     cfg,
		store:   store,
		service: attendance.NewService(cfg, store, detector),
	}
}

// buildZip creates an in-memory zip archive from name -> content entries.
func buildZip(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(content); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// multipartRequest builds a multipart POST request with the given form
// fields and, when fileField is non-empty, one attached file.
func multipartRequest(t *testing.T, path string, fields map[string]string, fileField, fileName string, fileContent []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write(fileContent); err != nil {
			t.Fatal(err)
		}
	}
	writer.Close()

	req := httptest.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}
