package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sis-portal/web/internal/adapters/middleware"
	"github.com/sis-portal/web/internal/core/ports"
)

type StudentHandler struct {
	studentService ports.StudentService
}

func NewStudentHandler(studentService ports.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

func (h *StudentHandler) ReloadDashboard(w http.ResponseWriter, r *http.Request) {
	err := h.studentService.LoadDashboard(r.Context(), middleware.SessionID(r.Context()))
	finish(w, r, "reload_dashboard", err)
}

func (h *StudentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	err := h.studentService.Enroll(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "id"))
	finish(w, r, "enroll", err)
}

func (h *StudentHandler) Revert(w http.ResponseWriter, r *http.Request) {
	err := h.studentService.Revert(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "id"))
	finish(w, r, "revert_enrollment", err)
}

func (h *StudentHandler) LookupParallels(w http.ResponseWriter, r *http.Request) {
	err := h.studentService.LookupParallels(r.Context(), middleware.SessionID(r.Context()), r.PostFormValue("courseCode"))
	finish(w, r, "course_parallels", err)
}

func (h *StudentHandler) Report(w http.ResponseWriter, r *http.Request) {
	err := h.studentService.FetchReport(r.Context(), middleware.SessionID(r.Context()))
	finish(w, r, "report", err)
}
