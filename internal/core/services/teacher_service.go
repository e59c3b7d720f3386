package services

import (
	"context"

	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/ports"
)

const (
	msgFetchStudentsFailed = "Failed to fetch students."
	msgGradeSuccess        = "Student graded successfully."
	msgGradeFailed         = "Failed to grade student"
)

// TeacherService backs the teacher views. Every failure shows a fixed message.
type TeacherService struct {
	viewRunner
	client ports.SISClient
}

var _ ports.TeacherService = (*TeacherService)(nil)

func NewTeacherService(client ports.SISClient, store ports.SessionStore, audit ports.AuditRecorder) *TeacherService {
	return &TeacherService{
		viewRunner: newViewRunner(store, audit),
		client:     client,
	}
}

func (s *TeacherService) ListCourses(ctx context.Context, sessionID string) error {
	t, err := s.begin(ctx, sessionID, domain.ViewCourses)
	if err != nil {
		return err
	}

	courses, callErr := s.client.TeacherCourses(ctx, t.cred)
	s.record(ctx, sessionID, "teacher_courses", outcomeOf(callErr), callErr)

	return s.commit(ctx, sessionID, domain.ViewCourses, t, func(sess *domain.Session) {
		if callErr != nil {
			sess.Views.Courses.Result = failure[[]domain.Course](callErr, msgFetchCoursesFailed)
			return
		}
		sess.Views.Courses.Result = domain.Succeeded(courses, "")
	})
}

func (s *TeacherService) ListStudents(ctx context.Context, sessionID, parallelID string) error {
	t, err := s.begin(ctx, sessionID, domain.ViewStudents)
	if err != nil {
		return err
	}

	students, callErr := s.client.StudentsInParallel(ctx, t.cred, parallelID)
	s.record(ctx, sessionID, "parallel_students", outcomeOf(callErr), callErr)

	return s.commit(ctx, sessionID, domain.ViewStudents, t, func(sess *domain.Session) {
		view := domain.StudentsView{ParallelID: parallelID}
		if callErr != nil {
			view.Result = failure[[]domain.Student](callErr, msgFetchStudentsFailed)
		} else {
			view.Result = domain.Succeeded(students, "")
		}
		sess.Views.Students = view
	})
}

func (s *TeacherService) Grade(ctx context.Context, sessionID, studentUsername string, grade domain.GradeSubmission) error {
	t, err := s.begin(ctx, sessionID, domain.ViewGrade)
	if err != nil {
		return err
	}

	callErr := s.client.GradeStudent(ctx, t.cred, studentUsername, grade)
	s.record(ctx, sessionID, "grade_student", outcomeOf(callErr), callErr)

	return s.commit(ctx, sessionID, domain.ViewGrade, t, func(sess *domain.Session) {
		view := domain.GradeView{StudentUsername: studentUsername, Form: grade}
		if callErr != nil {
			view.Result = failure[struct{}](callErr, msgGradeFailed)
		} else {
			view.Result = domain.SuccessNotice(msgGradeSuccess)
		}
		sess.Views.Grade = view
	})
}
