package handler

import (
	"net/http"

	"github.com/sis-portal/web/internal/adapters/middleware"
	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/ports"
)

type TeacherHandler struct {
	teacherService ports.TeacherService
}

func NewTeacherHandler(teacherService ports.TeacherService) *TeacherHandler {
	return &TeacherHandler{teacherService: teacherService}
}

func (h *TeacherHandler) Courses(w http.ResponseWriter, r *http.Request) {
	err := h.teacherService.ListCourses(r.Context(), middleware.SessionID(r.Context()))
	finish(w, r, "teacher_courses", err)
}

func (h *TeacherHandler) Students(w http.ResponseWriter, r *http.Request) {
	err := h.teacherService.ListStudents(r.Context(), middleware.SessionID(r.Context()), r.PostFormValue("parallelId"))
	finish(w, r, "parallel_students", err)
}

func (h *TeacherHandler) Grade(w http.ResponseWriter, r *http.Request) {
	grade := domain.GradeSubmission{
		Course:      r.PostFormValue("course"),
		TeacherName: r.PostFormValue("teacherName"),
		Grade:       r.PostFormValue("grade"),
	}
	err := h.teacherService.Grade(r.Context(), middleware.SessionID(r.Context()), r.PostFormValue("studentUsername"), grade)
	finish(w, r, "grade_student", err)
}
