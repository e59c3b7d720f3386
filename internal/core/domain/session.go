package domain

import (
	"strconv"
	"time"
)

// Session is the server-side state of one browser: the upstream credential,
// the visible section and a snapshot of every view.
type Session struct {
	ID         string             `json:"id"`
	Credential *Credential        `json:"credential,omitempty"`
	Section    Section            `json:"section"`
	Views      Views              `json:"views"`
	Seq        map[ViewKey]uint64 `json:"seq"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Views:     NewViews(now),
		Seq:       make(map[ViewKey]uint64),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) Authenticated() bool {
	return s.Credential != nil
}

// Begin starts a request for view and returns its sequence token.
func (s *Session) Begin(view ViewKey) uint64 {
	if s.Seq == nil {
		s.Seq = make(map[ViewKey]uint64)
	}
	s.Seq[view]++
	return s.Seq[view]
}

// IsCurrent reports whether token belongs to the latest request for view.
func (s *Session) IsCurrent(view ViewKey, token uint64) bool {
	return s.Seq[view] == token
}

// Unmount returns the views of section to their initial state and
// invalidates their pending requests.
func (s *Session) Unmount(section Section, now time.Time) {
	fresh := NewViews(now)
	for _, v := range ViewsOf(section) {
		s.Views.reset(v, fresh)
		s.Begin(v)
	}
}

type Views struct {
	Register       RegisterView       `json:"register"`
	Login          LoginView          `json:"login"`
	Dashboard      DashboardView      `json:"dashboard"`
	Lookup         LookupView         `json:"lookup"`
	Report         ReportView         `json:"report"`
	Courses        CoursesView        `json:"courses"`
	Students       StudentsView       `json:"students"`
	Grade          GradeView          `json:"grade"`
	CreateSemester CreateSemesterView `json:"create_semester"`
	SetActive      SetActiveView      `json:"set_active"`
	Semesters      SemestersView      `json:"semesters"`
	ActiveSemester ActiveSemesterView `json:"active_semester"`
}

// DefaultRegistration holds the placeholder values of the registration form.
var DefaultRegistration = RegistrationRequest{
	FirstName:   "Jane",
	LastName:    "Doe",
	Email:       "jane.doe@example.com",
	PhoneNumber: "777000111",
	BirthDate:   "2003-09-06",
	Password:    "123",
	RoleKeypass: "studentKeyPass",
}

func NewViews(now time.Time) Views {
	return Views{
		Register: RegisterView{Form: DefaultRegistration},
		CreateSemester: CreateSemesterView{
			Year:         strconv.Itoa(now.Year()),
			SemesterType: SemesterSpring,
		},
	}
}

func (v *Views) reset(key ViewKey, fresh Views) {
	switch key {
	case ViewRegister:
		v.Register = fresh.Register
	case ViewLogin:
		v.Login = fresh.Login
	case ViewDashboard:
		v.Dashboard = fresh.Dashboard
	case ViewLookup:
		v.Lookup = fresh.Lookup
	case ViewReport:
		v.Report = fresh.Report
	case ViewCourses:
		v.Courses = fresh.Courses
	case ViewStudents:
		v.Students = fresh.Students
	case ViewGrade:
		v.Grade = fresh.Grade
	case ViewCreateSemester:
		v.CreateSemester = fresh.CreateSemester
	case ViewSetActive:
		v.SetActive = fresh.SetActive
	case ViewSemesters:
		v.Semesters = fresh.Semesters
	case ViewActiveSemester:
		v.ActiveSemester = fresh.ActiveSemester
	}
}

type RegisterView struct {
	Form   RegistrationRequest `json:"form"`
	Result Notice              `json:"result"`
}

type LoginView struct {
	Username string `json:"username"`
	Result   Notice `json:"result"`
}

// DashboardView backs the student schedule grid and the next-semester list.
// List carries fetch and enroll messages, Revert carries revert messages.
type DashboardView struct {
	Schedule  []ScheduleEntry `json:"schedule"`
	Parallels []Parallel      `json:"parallels"`
	List      Notice          `json:"list"`
	Revert    Notice          `json:"revert"`
}

func (d DashboardView) Grid() ScheduleGrid {
	return BuildScheduleGrid(d.Schedule)
}

type LookupView struct {
	CourseCode string             `json:"course_code"`
	Result     Result[[]Parallel] `json:"result"`
}

type ReportView struct {
	Result Result[[]ReportEntry] `json:"result"`
}

type CoursesView struct {
	Result Result[[]Course] `json:"result"`
}

type StudentsView struct {
	ParallelID string            `json:"parallel_id"`
	Result     Result[[]Student] `json:"result"`
}

type GradeView struct {
	StudentUsername string          `json:"student_username"`
	Form            GradeSubmission `json:"form"`
	Result          Notice          `json:"result"`
}

type CreateSemesterView struct {
	Year         string `json:"year"`
	SemesterType string `json:"semester_type"`
	Result       Notice `json:"result"`
}

type SetActiveView struct {
	Code   string `json:"code"`
	Result Notice `json:"result"`
}

type SemestersView struct {
	Result Result[[]Semester] `json:"result"`
}

// ActiveSemesterView carries the active semester code as its data.
type ActiveSemesterView struct {
	Result Result[string] `json:"result"`
}
