package handler

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sis-portal/web/internal/adapters/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Page         *PageHandler
	Auth         *AuthHandler
	Registration *RegistrationHandler
	Student      *StudentHandler
	Teacher      *TeacherHandler
	Admin        *AdminHandler
	Health       *HealthHandler

	Sessions *middleware.SessionMiddleware
	CSRF     *middleware.CSRF
	Static   fs.FS
}

func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)

	// Health endpoints (OpenShift compatible)
	r.Get("/health", h.Health.Health)
	r.Get("/health/ready", h.Health.Ready)
	r.Get("/health/live", h.Health.Live)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.FileServer(http.FS(h.Static)))

	r.Group(func(r chi.Router) {
		r.Use(h.Sessions.Handler)
		r.Use(h.CSRF.Protect)

		r.Get("/", h.Page.Index)
		r.Post("/nav/{section}", h.Auth.Navigate)

		r.Post("/register", h.Registration.Register)
		r.Post("/login", h.Auth.Login)
		r.Post("/logout", h.Auth.Logout)

		r.Route("/student", func(r chi.Router) {
			r.Post("/dashboard/reload", h.Student.ReloadDashboard)
			r.Post("/enroll/{id}", h.Student.Enroll)
			r.Post("/revert/{id}", h.Student.Revert)
			r.Post("/parallels", h.Student.LookupParallels)
			r.Post("/report", h.Student.Report)
		})

		r.Route("/teacher", func(r chi.Router) {
			r.Post("/courses", h.Teacher.Courses)
			r.Post("/students", h.Teacher.Students)
			r.Post("/grade", h.Teacher.Grade)
		})

		r.Route("/admin/semesters", func(r chi.Router) {
			r.Post("/", h.Admin.CreateSemester)
			r.Post("/active", h.Admin.SetActiveSemester)
			r.Post("/list", h.Admin.ListSemesters)
			r.Post("/active/fetch", h.Admin.GetActiveSemester)
		})
	})

	return r
}
