package ports

import (
	"context"

	"github.com/sis-portal/web/internal/core/domain"
)

// SISClient is the remote school information system API. Calls that take a
// credential are sent with the upstream session attached.
type SISClient interface {
	Register(ctx context.Context, req domain.RegistrationRequest) error
	Login(ctx context.Context, creds domain.LoginCredentials) (*domain.LoginResult, error)
	Logout(ctx context.Context, cred *domain.Credential) error

	NextSemesterParallels(ctx context.Context, cred *domain.Credential) ([]domain.Parallel, error)
	Schedule(ctx context.Context, cred *domain.Credential) ([]domain.ScheduleEntry, error)
	Enroll(ctx context.Context, cred *domain.Credential, parallelID string) error
	RevertEnrollment(ctx context.Context, cred *domain.Credential, parallelID string) error
	ParallelsForCourse(ctx context.Context, cred *domain.Credential, courseCode string) ([]domain.Parallel, error)
	Report(ctx context.Context, cred *domain.Credential) ([]domain.ReportEntry, error)

	TeacherCourses(ctx context.Context, cred *domain.Credential) ([]domain.Course, error)
	StudentsInParallel(ctx context.Context, cred *domain.Credential, parallelID string) ([]domain.Student, error)
	GradeStudent(ctx context.Context, cred *domain.Credential, studentUsername string, grade domain.GradeSubmission) error

	CreateSemester(ctx context.Context, cred *domain.Credential, semester domain.SemesterRequest) error
	SetActiveSemester(ctx context.Context, cred *domain.Credential, code string) error
	Semesters(ctx context.Context, cred *domain.Credential) ([]domain.Semester, error)
	ActiveSemester(ctx context.Context, cred *domain.Credential) (*domain.Semester, error)

	// Available is false while the circuit breaker is open.
	Available() bool
}
