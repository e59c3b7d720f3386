package handler

import (
	"net/http"

	"github.com/sis-portal/web/internal/adapters/middleware"
	"github.com/sis-portal/web/internal/core/ports"
)

type AdminHandler struct {
	adminService ports.AdminService
}

func NewAdminHandler(adminService ports.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) CreateSemester(w http.ResponseWriter, r *http.Request) {
	err := h.adminService.CreateSemester(r.Context(), middleware.SessionID(r.Context()),
		r.PostFormValue("year"), r.PostFormValue("semesterType"))
	finish(w, r, "create_semester", err)
}

func (h *AdminHandler) SetActiveSemester(w http.ResponseWriter, r *http.Request) {
	err := h.adminService.SetActiveSemester(r.Context(), middleware.SessionID(r.Context()), r.PostFormValue("semesterCode"))
	finish(w, r, "set_active_semester", err)
}

func (h *AdminHandler) ListSemesters(w http.ResponseWriter, r *http.Request) {
	err := h.adminService.ListSemesters(r.Context(), middleware.SessionID(r.Context()))
	finish(w, r, "semesters", err)
}

func (h *AdminHandler) GetActiveSemester(w http.ResponseWriter, r *http.Request) {
	err := h.adminService.GetActiveSemester(r.Context(), middleware.SessionID(r.Context()))
	finish(w, r, "active_semester", err)
}
