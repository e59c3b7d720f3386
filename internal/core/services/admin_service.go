package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/ports"
)

const (
	msgSemesterCreated       = "Semester created successfully."
	msgActiveSemesterSet     = "Active semester set successfully."
	msgFetchSemestersFailed  = "Failed to fetch all semesters"
	msgActiveSemesterFetched = "Active semester fetched successfully."
)

type AdminService struct {
	viewRunner
	client ports.SISClient
}

var _ ports.AdminService = (*AdminService)(nil)

func NewAdminService(client ports.SISClient, store ports.SessionStore, audit ports.AuditRecorder) *AdminService {
	return &AdminService{
		viewRunner: newViewRunner(store, audit),
		client:     client,
	}
}

// CreateSemester sends the year as typed; the upstream rejects bad input.
func (s *AdminService) CreateSemester(ctx context.Context, sessionID, year, semesterType string) error {
	t, err := s.begin(ctx, sessionID, domain.ViewCreateSemester)
	if err != nil {
		return err
	}

	semester := domain.SemesterRequest{
		Year:         json.Number(strings.TrimSpace(year)),
		SemesterType: semesterType,
	}
	callErr := s.client.CreateSemester(ctx, t.cred, semester)
	s.record(ctx, sessionID, "create_semester", outcomeOf(callErr), callErr)

	return s.commit(ctx, sessionID, domain.ViewCreateSemester, t, func(sess *domain.Session) {
		view := domain.CreateSemesterView{Year: year, SemesterType: semesterType}
		if callErr != nil {
			reason := callErr.Error()
			if status := domain.StatusCode(callErr); status != 0 {
				reason = fmt.Sprintf("Semester creation failed with status: %d", status)
			}
			view.Result = failure[struct{}](callErr, "Failed to create semester: "+reason)
		} else {
			view.Result = domain.SuccessNotice(msgSemesterCreated)
		}
		sess.Views.CreateSemester = view
	})
}

// SetActiveSemester reports only the status code on rejection.
func (s *AdminService) SetActiveSemester(ctx context.Context, sessionID, code string) error {
	t, err := s.begin(ctx, sessionID, domain.ViewSetActive)
	if err != nil {
		return err
	}

	callErr := s.client.SetActiveSemester(ctx, t.cred, code)
	s.record(ctx, sessionID, "set_active_semester", outcomeOf(callErr), callErr)

	return s.commit(ctx, sessionID, domain.ViewSetActive, t, func(sess *domain.Session) {
		view := domain.SetActiveView{Code: code}
		if callErr != nil {
			reason := callErr.Error()
			if status := domain.StatusCode(callErr); status != 0 {
				reason = strconv.Itoa(status)
			}
			view.Result = failure[struct{}](callErr, "Failed to set active semester: "+reason)
		} else {
			view.Result = domain.SuccessNotice(msgActiveSemesterSet)
		}
		sess.Views.SetActive = view
	})
}

func (s *AdminService) ListSemesters(ctx context.Context, sessionID string) error {
	t, err := s.begin(ctx, sessionID, domain.ViewSemesters)
	if err != nil {
		return err
	}

	semesters, callErr := s.client.Semesters(ctx, t.cred)
	s.record(ctx, sessionID, "semesters", outcomeOf(callErr), callErr)

	return s.commit(ctx, sessionID, domain.ViewSemesters, t, func(sess *domain.Session) {
		if callErr != nil {
			sess.Views.Semesters.Result = failure[[]domain.Semester](callErr, msgFetchSemestersFailed)
			return
		}
		sess.Views.Semesters.Result = domain.Succeeded(semesters, "")
	})
}

// GetActiveSemester clears the shown code on any failure.
func (s *AdminService) GetActiveSemester(ctx context.Context, sessionID string) error {
	t, err := s.begin(ctx, sessionID, domain.ViewActiveSemester)
	if err != nil {
		return err
	}

	semester, callErr := s.client.ActiveSemester(ctx, t.cred)
	s.record(ctx, sessionID, "active_semester", outcomeOf(callErr), callErr)

	return s.commit(ctx, sessionID, domain.ViewActiveSemester, t, func(sess *domain.Session) {
		if callErr != nil {
			message := callErr.Error()
			if status := domain.StatusCode(callErr); status != 0 {
				message = fmt.Sprintf("Failed to fetch active semester with status: %d", status)
			}
			sess.Views.ActiveSemester.Result = failure[string](callErr, message)
			return
		}
		code := ""
		if semester != nil {
			code = semester.Code
		}
		sess.Views.ActiveSemester.Result = domain.Succeeded(code, msgActiveSemesterFetched)
	})
}
