package handlers

import (
	"net/http"

	"github.com/kozaktomas/attendance-marker/internal/database"
)

// RecordsHandler handles attendance record endpoints.
type RecordsHandler struct {
	store *database.Store
}

// NewRecordsHandler creates a new attendance records handler.
func NewRecordsHandler(store *database.Store) *RecordsHandler {
	return &RecordsHandler{store: store}
}

// List handles GET /attendance: logged attendance events, newest first,
// optionally filtered by class_name and section.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	records, err := h.store.ListAttendance(r.Context(), q.Get("class_name"), q.Get("section"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list attendance records")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"count":   len(records),
	})
}
