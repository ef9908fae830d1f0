package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/kozaktomas/attendance-marker/internal/attendance"
	"github.com/kozaktomas/attendance-marker/internal/config"
)

// EnrollHandler handles the student enrollment endpoint.
type EnrollHandler struct {
	config  *config.Config
	service *attendance.Service
}

// NewEnrollHandler creates a new enrollment handler.
func NewEnrollHandler(cfg *config.Config, svc *attendance.Service) *EnrollHandler {
	return &EnrollHandler{
		config:  cfg,
		service: svc,
	}
}

// Enroll handles POST /enroll/: a ZIP of per-student face photo folders is
// extracted into the persistent faces directory and each folder becomes one
// enrolled student.
func (h *EnrollHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	className := r.FormValue("class_name")
	section := r.FormValue("section")
	if className == "" || section == "" {
		respondError(w, http.StatusBadRequest, "class_name and section are required")
		return
	}
	subject := r.FormValue("subject")

	files := r.MultipartForm.File["faces_zip"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "faces_zip is required")
		return
	}

	zipPath, reqDir, err := saveUploadedArchive(files[0], h.config.Storage.TempDir)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer os.RemoveAll(reqDir)

	// Extracted faces stay on disk so enrollment records can reference the
	// source photo folders.
	facesDir := filepath.Join(h.config.Storage.FacesDir(), fmt.Sprintf("%s_%s", className, section))
	if err := os.MkdirAll(facesDir, 0o755); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create faces directory")
		return
	}
	if err := attendance.ExtractZip(zipPath, facesDir); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to extract archive: %v", err))
		return
	}

	result, err := h.service.Enroll(r.Context(), attendance.EnrollParams{
		Dir:       facesDir,
		ClassName: className,
		Section:   section,
		Subject:   subject,
	})
	if err != nil {
		log.Printf("enrollment failed for %s/%s: %v", sanitizeForLog(className), sanitizeForLog(section), err)
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("enrollment failed: %v", err))
		return
	}

	respondJSON(w, http.StatusOK, result)
}
