package handlers

import (
	"fmt"
	"net/http"

	"github.com/kozaktomas/attendance-marker/internal/database"
)

// StudentsHandler handles student roster endpoints.
type StudentsHandler struct {
	store *database.Store
}

// NewStudentsHandler creates a new students handler.
func NewStudentsHandler(store *database.Store) *StudentsHandler {
	return &StudentsHandler{store: store}
}

// List handles GET /students: enrolled students, optionally filtered by
// class_name, section, and subject.
func (h *StudentsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	students, err := h.store.ListStudents(r.Context(), q.Get("class_name"), q.Get("section"), q.Get("subject"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list students")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"students": students,
		"count":    len(students),
	})
}

// Delete handles DELETE /delete-student/: removes one student and their
// attendance history by roll number.
func (h *StudentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	rollNo := r.URL.Query().Get("roll_no")
	if rollNo == "" {
		respondError(w, http.StatusBadRequest, "roll_no is required")
		return
	}

	deleted, err := h.store.DeleteStudent(r.Context(), rollNo)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete student")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Student not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Student %s deleted successfully", rollNo),
	})
}

// DeleteClass handles DELETE /delete-class/: removes students and attendance
// for a class, optionally narrowed by section and then subject. A subject
// without a section is rejected because the subject filter only has meaning
// inside one section.
func (h *StudentsHandler) DeleteClass(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	className := q.Get("class_name")
	section := q.Get("section")
	subject := q.Get("subject")

	if className == "" {
		respondError(w, http.StatusBadRequest, "class_name is required")
		return
	}
	if subject != "" && section == "" {
		respondError(w, http.StatusBadRequest, "section is required when subject is provided")
		return
	}

	deleted, err := h.store.DeleteClassData(r.Context(), className, section, subject)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete class data")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "No matching data found to delete")
		return
	}

	scope := className
	if section != "" {
		scope += " " + section
	}
	if subject != "" {
		scope += " " + subject
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Deleted all data for %s", scope),
	})
}
