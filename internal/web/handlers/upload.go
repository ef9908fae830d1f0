package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// saveUploadedArchive writes a multipart archive upload into a fresh
// per-request directory under tempDir and returns the archive path and the
// request directory. The caller removes the directory when done.
func saveUploadedArchive(fileHeader *multipart.FileHeader, tempDir string) (string, string, error) {
	reqDir := filepath.Join(tempDir, uuid.NewString())
	if err := os.MkdirAll(reqDir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		os.RemoveAll(reqDir)
		return "", "", fmt.Errorf("failed to open upload %s: %w", fileHeader.Filename, err)
	}
	defer file.Close()

	zipPath := filepath.Join(reqDir, "upload.zip")
	out, err := os.Create(zipPath)
	if err != nil {
		os.RemoveAll(reqDir)
		return "", "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.RemoveAll(reqDir)
		return "", "", fmt.Errorf("failed to save upload: %w", err)
	}
	return zipPath, reqDir, nil
}
