package web

import (
	"github.com/kozaktomas/attendance-marker/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	enrollHandler := handlers.NewEnrollHandler(s.config, s.service)
	markHandler := handlers.NewMarkHandler(s.config, s.service)
	studentsHandler := handlers.NewStudentsHandler(s.store)
	recordsHandler := handlers.NewRecordsHandler(s.store)

	s.router.Get("/health", handlers.HealthCheck)

	s.router.Post("/enroll/", enrollHandler.Enroll)
	s.router.Post("/mark-attendance/", markHandler.Mark)

	s.router.Get("/students", studentsHandler.List)
	s.router.Get("/attendance", recordsHandler.List)

	s.router.Delete("/delete-student/", studentsHandler.Delete)
	s.router.Delete("/delete-class/", studentsHandler.DeleteClass)
}
