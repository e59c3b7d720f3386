package services

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/ports"
)

const (
	msgFetchCoursesFailed   = "Failed to fetch courses."
	msgFetchScheduleFailed  = "Failed to fetch schedule."
	msgEnrollSuccess        = "Enrollment successful."
	msgEnrollFailed         = "Failed to enroll in parallel."
	msgRevertSuccess        = "Enrollment reverted."
	msgRevertFailed         = "Failed to revert enrollment."
	msgFetchParallelsFailed = "Failed to fetch parallels."
	msgFetchReportFailed    = "Failed to fetch report."
)

type StudentService struct {
	viewRunner
	client ports.SISClient
}

var _ ports.StudentService = (*StudentService)(nil)

func NewStudentService(client ports.SISClient, store ports.SessionStore, audit ports.AuditRecorder) *StudentService {
	return &StudentService{
		viewRunner: newViewRunner(store, audit),
		client:     client,
	}
}

// LoadDashboard fetches the schedule and the next-semester parallels
// concurrently, then applies the schedule before the parallels.
func (s *StudentService) LoadDashboard(ctx context.Context, sessionID string) error {
	t, err := s.begin(ctx, sessionID, domain.ViewDashboard)
	if err != nil {
		return err
	}

	var (
		schedule     []domain.ScheduleEntry
		scheduleErr  error
		parallels    []domain.Parallel
		parallelsErr error
	)

	// Both calls always run to completion; their errors are view state.
	var g errgroup.Group
	g.Go(func() error {
		schedule, scheduleErr = s.client.Schedule(ctx, t.cred)
		return nil
	})
	g.Go(func() error {
		parallels, parallelsErr = s.client.NextSemesterParallels(ctx, t.cred)
		return nil
	})
	_ = g.Wait()

	s.record(ctx, sessionID, "schedule", outcomeOf(scheduleErr), scheduleErr)
	s.record(ctx, sessionID, "next_semester_parallels", outcomeOf(parallelsErr), parallelsErr)

	return s.commit(ctx, sessionID, domain.ViewDashboard, t, func(sess *domain.Session) {
		d := &sess.Views.Dashboard
		applySchedule(d, schedule, scheduleErr)
		applyParallels(d, parallels, parallelsErr)
	})
}

// applySchedule follows the schedule fetch rules: success clears a list
// error, a non-2xx answer silently empties the grid.
func applySchedule(d *domain.DashboardView, schedule []domain.ScheduleEntry, err error) {
	if err == nil {
		d.Schedule = schedule
		if d.List.IsError() {
			d.List = domain.Notice{}
		}
		return
	}

	d.Schedule = nil
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.Parsed {
		if errors.Is(err, domain.ErrUnauthenticated) {
			d.List = domain.Unauthenticated[struct{}](msgFetchScheduleFailed)
		}
		return
	}
	d.List = failure[struct{}](err, msgFetchScheduleFailed)
}

func applyParallels(d *domain.DashboardView, parallels []domain.Parallel, err error) {
	if err == nil {
		d.Parallels = parallels
		return
	}
	d.List = failure[struct{}](err, domain.ServerMessage(err, msgFetchCoursesFailed))
}

// Enroll signs up for a parallel and refreshes the schedule once on success.
func (s *StudentService) Enroll(ctx context.Context, sessionID, parallelID string) error {
	t, err := s.begin(ctx, sessionID, domain.ViewDashboard)
	if err != nil {
		return err
	}

	callErr := s.client.Enroll(ctx, t.cred, parallelID)
	s.record(ctx, sessionID, "enroll", outcomeOf(callErr), callErr)
	if callErr != nil {
		return s.commit(ctx, sessionID, domain.ViewDashboard, t, func(sess *domain.Session) {
			sess.Views.Dashboard.List = failure[struct{}](callErr, domain.ServerMessage(callErr, msgEnrollFailed))
		})
	}

	schedule, scheduleErr := s.client.Schedule(ctx, t.cred)
	return s.commit(ctx, sessionID, domain.ViewDashboard, t, func(sess *domain.Session) {
		d := &sess.Views.Dashboard
		d.List = domain.SuccessNotice(msgEnrollSuccess)
		d.Revert = domain.Notice{}
		applySchedule(d, schedule, scheduleErr)
	})
}

// Revert drops an enrollment. Failures never show the server message.
func (s *StudentService) Revert(ctx context.Context, sessionID, parallelID string) error {
	t, err := s.begin(ctx, sessionID, domain.ViewDashboard)
	if err != nil {
		return err
	}

	callErr := s.client.RevertEnrollment(ctx, t.cred, parallelID)
	s.record(ctx, sessionID, "revert_enrollment", outcomeOf(callErr), callErr)
	if callErr != nil {
		return s.commit(ctx, sessionID, domain.ViewDashboard, t, func(sess *domain.Session) {
			sess.Views.Dashboard.Revert = failure[struct{}](callErr, msgRevertFailed)
		})
	}

	schedule, scheduleErr := s.client.Schedule(ctx, t.cred)
	return s.commit(ctx, sessionID, domain.ViewDashboard, t, func(sess *domain.Session) {
		d := &sess.Views.Dashboard
		d.Revert = domain.SuccessNotice(msgRevertSuccess)
		d.List = domain.Notice{}
		applySchedule(d, schedule, scheduleErr)
	})
}

func (s *StudentService) LookupParallels(ctx context.Context, sessionID, courseCode string) error {
	t, err := s.begin(ctx, sessionID, domain.ViewLookup)
	if err != nil {
		return err
	}

	parallels, callErr := s.client.ParallelsForCourse(ctx, t.cred, courseCode)
	s.record(ctx, sessionID, "course_parallels", outcomeOf(callErr), callErr)

	return s.commit(ctx, sessionID, domain.ViewLookup, t, func(sess *domain.Session) {
		view := domain.LookupView{CourseCode: courseCode}
		if callErr != nil {
			view.Result = failure[[]domain.Parallel](callErr, domain.ServerMessage(callErr, msgFetchParallelsFailed))
		} else {
			view.Result = domain.Succeeded(parallels, "")
		}
		sess.Views.Lookup = view
	})
}

// FetchReport shows the server message for rejected requests and the raw
// error text when the call itself failed.
func (s *StudentService) FetchReport(ctx context.Context, sessionID string) error {
	t, err := s.begin(ctx, sessionID, domain.ViewReport)
	if err != nil {
		return err
	}

	report, callErr := s.client.Report(ctx, t.cred)
	s.record(ctx, sessionID, "report", outcomeOf(callErr), callErr)

	return s.commit(ctx, sessionID, domain.ViewReport, t, func(sess *domain.Session) {
		var result domain.Result[[]domain.ReportEntry]
		var apiErr *domain.APIError
		switch {
		case callErr == nil:
			result = domain.Succeeded(report, "")
		case errors.As(callErr, &apiErr):
			result = failure[[]domain.ReportEntry](callErr, domain.ServerMessage(callErr, msgFetchReportFailed))
		default:
			result = domain.Failed[[]domain.ReportEntry](callErr.Error())
		}
		sess.Views.Report = domain.ReportView{Result: result}
	})
}
