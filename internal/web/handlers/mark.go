package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/kozaktomas/attendance-marker/internal/attendance"
	"github.com/kozaktomas/attendance-marker/internal/config"
)

// MarkHandler handles the attendance marking endpoint.
type MarkHandler struct {
	config  *config.Config
	service *attendance.Service
}

// NewMarkHandler creates a new attendance marking handler.
func NewMarkHandler(cfg *config.Config, svc *attendance.Service) *MarkHandler {
	return &MarkHandler{
		config:  cfg,
		service: svc,
	}
}

// Mark handles POST /mark-attendance/: a ZIP of unlabeled classroom photos
// is matched against the enrolled roster for the given class.
func (h *MarkHandler) Mark(w http.ResponseWriter, r *http.Request) {
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

	threshold := h.config.Matching.DefaultThreshold
	if v := r.FormValue("threshold"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid threshold value")
			return
		}
		threshold = parsed
	}

	files := r.MultipartForm.File["photos_zip"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "photos_zip is required")
		return
	}

	zipPath, reqDir, err := saveUploadedArchive(files[0], h.config.Storage.TempDir)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer os.RemoveAll(reqDir)

	// Classroom photos are transient; they live only for this request.
	photosDir := filepath.Join(reqDir, "photos")
	if err := os.MkdirAll(photosDir, 0o755); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create photos directory")
		return
	}
	if err := attendance.ExtractZip(zipPath, photosDir); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to extract archive: %v", err))
		return
	}

	result, err := h.service.Mark(r.Context(), attendance.MarkParams{
		Dir:       photosDir,
		ClassName: className,
		Section:   section,
		Subject:   subject,
		Threshold: threshold,
	})
	if err != nil {
		log.Printf("matching run failed for %s/%s: %v", sanitizeForLog(className), sanitizeForLog(section), err)
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("attendance marking failed: %v", err))
		return
	}

	respondJSON(w, http.StatusOK, result)
}
