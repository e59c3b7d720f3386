package domain

import "encoding/json"

// RegistrationRequest is the body of POST /rest/person.
type RegistrationRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	BirthDate   string `json:"birthDate"`
	Password    string `json:"password"`
	RoleKeypass string `json:"roleKeypass"`
}

// LoginCredentials are sent form-encoded to POST /login.
type LoginCredentials struct {
	Username string
	Password string
}

// LoginResult carries what a 2xx login response returned.
type LoginResult struct {
	Credential *Credential
	Body       json.RawMessage
}

// Parallel is a scheduled section of a course. Schedule entries share the same shape.
type Parallel struct {
	ID            int64  `json:"id"`
	CourseCode    string `json:"courseCode"`
	CourseName    string `json:"courseName"`
	TeacherName   string `json:"teacherName"`
	ClassroomCode string `json:"classroomCode"`
	DayOfWeek     string `json:"dayOfWeek"`
	TimeSlot      string `json:"timeSlot"`
}

type ScheduleEntry = Parallel

type Course struct {
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	ECTS          int      `json:"ects"`
	ParallelsList []string `json:"parallelsList"`
}

type Student struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserName  string `json:"userName"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
}

// GradeSubmission is posted to /teacher/grade/{studentUsername}.
type GradeSubmission struct {
	Course      string `json:"course"`
	TeacherName string `json:"teacherName"`
	Grade       string `json:"grade"`
}

type ReportEntry struct {
	Course      string `json:"course"`
	Grade       string `json:"grade"`
	Status      string `json:"status"`
	TeacherName string `json:"teacherName"`
}

const (
	SemesterSpring = "SPRING"
	SemesterFall   = "FALL"
)

// SemesterRequest is the body of POST /rest/admin/semester. Year is sent as typed.
type SemesterRequest struct {
	Year         json.Number `json:"year"`
	SemesterType string      `json:"semesterType"`
}

type Semester struct {
	ID           int64  `json:"id"`
	Code         string `json:"code"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	IsActive     bool   `json:"isActive"`
	SemesterType string `json:"semesterType"`
}
