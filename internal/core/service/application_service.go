package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/parkview/rental-system/internal/core/domain"
	"github.com/parkview/rental-system/internal/core/ports"
	"github.com/parkview/rental-system/internal/pkg/metrics"
)

// ApplicationService handles application intake and admin review.
// Status changes are unconditional overwrites among the canonical statuses;
// there is no transition graph.
type ApplicationService struct {
	applications ports.ApplicationRepository
	apartments   ports.ApartmentRepository
	activity     ports.ActivityRecorder
	log          zerolog.Logger
}

func NewApplicationService(applications ports.ApplicationRepository, apartments ports.ApartmentRepository, activity ports.ActivityRecorder, log zerolog.Logger) *ApplicationService {
	return &ApplicationService{applications: applications, apartments: apartments, activity: recorderOrDiscard(activity), log: log}
}

// Submit records an application with status submitted.
func (s *ApplicationService) Submit(ctx context.Context, in ports.SubmitApplicationInput) (*domain.Application, error) {
	if strings.TrimSpace(in.Email) == "" {
		return nil, domain.Invalidf("email is required")
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" || strings.TrimSpace(in.Phone) == "" {
		return nil, domain.Invalidf("first name, last name and phone are required")
	}
	if in.MonthlyIncome < 0 || in.Occupants < 0 {
		return nil, domain.Invalidf("income and occupants must not be negative")
	}
	if in.ApartmentID != nil {
		if _, err := s.apartments.FindByID(ctx, *in.ApartmentID); err != nil {
			return nil, err
		}
	}

	app := &domain.Application{
		Email:          in.Email,
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Phone:          strings.TrimSpace(in.Phone),
		CurrentAddress: in.CurrentAddress,
		Employer:       in.Employer,
		MonthlyIncome:  in.MonthlyIncome,
		MoveInDate:     in.MoveInDate,
		Occupants:      in.Occupants,
		Notes:          in.Notes,
		ApartmentID:    in.ApartmentID,
		Status:         domain.ApplicationSubmitted,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, err
	}

	metrics.ApplicationsTotal.Inc()
	s.log.Info().Uint("application_id", app.ID).Msg("application submitted")
	s.activity.Record(newActivity(domain.ActivityApplicationCreated, "application", app.ID, in.Actor, nil))
	return app, nil
}

// ListForUser returns the caller's applications, newest first.
func (s *ApplicationService) ListForUser(ctx context.Context, email string) ([]*domain.Application, error) {
	if strings.TrimSpace(email) == "" {
		return []*domain.Application{}, nil
	}
	return s.applications.ListByEmail(ctx, email)
}

// List returns the review queue, optionally narrowed to one status. Legacy
// stored values match the canonical status they normalize to.
func (s *ApplicationService) List(ctx context.Context, status string) ([]*domain.Application, error) {
	var want domain.ApplicationStatus
	if status != "" {
		want = domain.ApplicationStatus(strings.ToLower(strings.TrimSpace(status)))
		if !want.Valid() {
			return nil, domain.Invalidf("unknown application status %q", status)
		}
	}

	apps, err := s.applications.List(ctx)
	if err != nil {
		return nil, err
	}
	if want == "" {
		return apps, nil
	}
	out := make([]*domain.Application, 0, len(apps))
	for _, a := range apps {
		if a.Status == want {
			out = append(out, a)
		}
	}
	return out, nil
}

// SetStatus overwrites the status of application id.
func (s *ApplicationService) SetStatus(ctx context.Context, id uint, status string, actor domain.Actor) (*domain.Application, error) {
	next := domain.ApplicationStatus(strings.ToLower(strings.TrimSpace(status)))
	if !next.Valid() {
		return nil, domain.Invalidf("status must be one of: submitted, under_review, approved")
	}

	prev, err := s.applications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applications.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}

	s.log.Info().Uint("application_id", id).Str("from", string(prev.Status)).Str("to", string(next)).Msg("application status set")
	s.activity.Record(newActivity(domain.ActivityApplicationStatus, "application", id, actor,
		map[string]string{"from": string(prev.Status), "to": string(next)}))

	return s.applications.FindByID(ctx, id)
}
