package mocks

import (
	"context"
	"sync"

	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/ports"
)

// Call is one recorded invocation of the mock API client.
type Call struct {
	Op         string
	Credential *domain.Credential
	Args       []any
}

// MockSISClient implements ports.SISClient for testing. Every call returns
// the matching canned value and error and is recorded in Calls.
type MockSISClient struct {
	mu sync.Mutex

	Calls []Call

	// OnCall runs after a call is recorded and before it returns.
	OnCall func(op string)

	LoginResult     *domain.LoginResult
	Parallels       []domain.Parallel
	ScheduleEntries []domain.ScheduleEntry
	// ScheduleSequence overrides ScheduleEntries for successive calls when set.
	ScheduleSequence [][]domain.ScheduleEntry
	CourseParallels  []domain.Parallel
	ReportEntries    []domain.ReportEntry
	Courses          []domain.Course
	Students         []domain.Student
	SemesterList     []domain.Semester
	Active           *domain.Semester

	// Errors maps an operation name to the error it returns.
	Errors map[string]error

	Unavailable bool
}

var _ ports.SISClient = (*MockSISClient)(nil)

func NewMockSISClient() *MockSISClient {
	return &MockSISClient{Errors: make(map[string]error)}
}

func (m *MockSISClient) track(op string, cred *domain.Credential, args ...any) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, Call{Op: op, Credential: cred.Clone(), Args: args})
	err := m.Errors[op]
	hook := m.OnCall
	m.mu.Unlock()

	if hook != nil {
		hook(op)
	}
	return err
}

// CallCount returns how many times op was called.
func (m *MockSISClient) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// LastCall returns the latest call to op.
func (m *MockSISClient) LastCall(op string) (Call, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.Calls) - 1; i >= 0; i-- {
		if m.Calls[i].Op == op {
			return m.Calls[i], true
		}
	}
	return Call{}, false
}

func (m *MockSISClient) Register(ctx context.Context, req domain.RegistrationRequest) error {
	return m.track("register", nil, req)
}

func (m *MockSISClient) Login(ctx context.Context, creds domain.LoginCredentials) (*domain.LoginResult, error) {
	if err := m.track("login", nil, creds); err != nil {
		return nil, err
	}
	return m.LoginResult, nil
}

func (m *MockSISClient) Logout(ctx context.Context, cred *domain.Credential) error {
	return m.track("logout", cred)
}

func (m *MockSISClient) NextSemesterParallels(ctx context.Context, cred *domain.Credential) ([]domain.Parallel, error) {
	if err := m.track("next_semester_parallels", cred); err != nil {
		return nil, err
	}
	return m.Parallels, nil
}

func (m *MockSISClient) Schedule(ctx context.Context, cred *domain.Credential) ([]domain.ScheduleEntry, error) {
	if err := m.track("schedule", cred); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.ScheduleSequence) > 0 {
		next := m.ScheduleSequence[0]
		m.ScheduleSequence = m.ScheduleSequence[1:]
		return next, nil
	}
	return m.ScheduleEntries, nil
}

func (m *MockSISClient) Enroll(ctx context.Context, cred *domain.Credential, parallelID string) error {
	return m.track("enroll", cred, parallelID)
}

func (m *MockSISClient) RevertEnrollment(ctx context.Context, cred *domain.Credential, parallelID string) error {
	return m.track("revert_enrollment", cred, parallelID)
}

func (m *MockSISClient) ParallelsForCourse(ctx context.Context, cred *domain.Credential, courseCode string) ([]domain.Parallel, error) {
	if err := m.track("course_parallels", cred, courseCode); err != nil {
		return nil, err
	}
	return m.CourseParallels, nil
}

func (m *MockSISClient) Report(ctx context.Context, cred *domain.Credential) ([]domain.ReportEntry, error) {
	if err := m.track("report", cred); err != nil {
		return nil, err
	}
	return m.ReportEntries, nil
}

func (m *MockSISClient) TeacherCourses(ctx context.Context, cred *domain.Credential) ([]domain.Course, error) {
	if err := m.track("teacher_courses", cred); err != nil {
		return nil, err
	}
	return m.Courses, nil
}

func (m *MockSISClient) StudentsInParallel(ctx context.Context, cred *domain.Credential, parallelID string) ([]domain.Student, error) {
	if err := m.track("parallel_students", cred, parallelID); err != nil {
		return nil, err
	}
	return m.Students, nil
}

func (m *MockSISClient) GradeStudent(ctx context.Context, cred *domain.Credential, studentUsername string, grade domain.GradeSubmission) error {
	return m.track("grade_student", cred, studentUsername, grade)
}

func (m *MockSISClient) CreateSemester(ctx context.Context, cred *domain.Credential, semester domain.SemesterRequest) error {
	return m.track("create_semester", cred, semester)
}

func (m *MockSISClient) SetActiveSemester(ctx context.Context, cred *domain.Credential, code string) error {
	return m.track("set_active_semester", cred, code)
}

func (m *MockSISClient) Semesters(ctx context.Context, cred *domain.Credential) ([]domain.Semester, error) {
	if err := m.track("semesters", cred); err != nil {
		return nil, err
	}
	return m.SemesterList, nil
}

func (m *MockSISClient) ActiveSemester(ctx context.Context, cred *domain.Credential) (*domain.Semester, error) {
	if err := m.track("active_semester", cred); err != nil {
		return nil, err
	}
	return m.Active, nil
}

func (m *MockSISClient) Available() bool {
	return !m.Unavailable
}
