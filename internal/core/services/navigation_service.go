package services

import (
	"context"
	"time"

	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/ports"
)

type NavigationService struct {
	store   ports.SessionStore
	student ports.StudentService
	now     func() time.Time
}

var _ ports.NavigationService = (*NavigationService)(nil)

func NewNavigationService(store ports.SessionStore, student ports.StudentService) *NavigationService {
	return &NavigationService{
		store:   store,
		student: student,
		now:     time.Now,
	}
}

// Select shows target. Leaving a section unmounts its views; entering the
// student section mounts the dashboard, which loads it.
func (n *NavigationService) Select(ctx context.Context, sessionID string, target domain.Section) error {
	var mountDashboard bool

	err := n.store.Update(ctx, sessionID, func(s *domain.Session) error {
		next := domain.Select(s.Section, target)
		mountDashboard = false
		if next != s.Section {
			s.Unmount(s.Section, n.now())
			mountDashboard = next == domain.SectionStudent
		}
		s.Section = next
		return nil
	})
	if err != nil {
		return err
	}

	if mountDashboard {
		return n.student.LoadDashboard(ctx, sessionID)
	}
	return nil
}
