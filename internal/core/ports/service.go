package ports

import (
	"context"

	"github.com/sis-portal/web/internal/core/domain"
)

type RegistrationService interface {
	Register(ctx context.Context, sessionID string, req domain.RegistrationRequest) error
}

type AuthService interface {
	Login(ctx context.Context, sessionID string, creds domain.LoginCredentials) error
	Logout(ctx context.Context, sessionID string) error
}

type NavigationService interface {
	Select(ctx context.Context, sessionID string, target domain.Section) error
}

type StudentService interface {
	LoadDashboard(ctx context.Context, sessionID string) error
	Enroll(ctx context.Context, sessionID, parallelID string) error
	Revert(ctx context.Context, sessionID, parallelID string) error
	LookupParallels(ctx context.Context, sessionID, courseCode string) error
	FetchReport(ctx context.Context, sessionID string) error
}

type TeacherService interface {
	ListCourses(ctx context.Context, sessionID string) error
	ListStudents(ctx context.Context, sessionID, parallelID string) error
	Grade(ctx context.Context, sessionID, studentUsername string, grade domain.GradeSubmission) error
}

type AdminService interface {
	CreateSemester(ctx context.Context, sessionID, year, semesterType string) error
	SetActiveSemester(ctx context.Context, sessionID, code string) error
	ListSemesters(ctx context.Context, sessionID string) error
	GetActiveSemester(ctx context.Context, sessionID string) error
}
