package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/parkview/rental-system/internal/core/domain"
	"github.com/parkview/rental-system/internal/core/ports"
	"github.com/parkview/rental-system/internal/pkg/metrics"
)

// MaintenanceService tracks tenant maintenance requests.
type MaintenanceService struct {
	requests ports.MaintenanceRepository
	leases   ports.LeaseRepository
	activity ports.ActivityRecorder
	log      zerolog.Logger
}

func NewMaintenanceService(requests ports.MaintenanceRepository, leases ports.LeaseRepository, activity ports.ActivityRecorder, log zerolog.Logger) *MaintenanceService {
	return &MaintenanceService{requests: requests, leases: leases, activity: recorderOrDiscard(activity), log: log}
}

// Submit stores a pending request. Blank issue tags are dropped; at least one
// must remain.
func (s *MaintenanceService) Submit(ctx context.Context, in ports.SubmitMaintenanceInput) (*domain.MaintenanceRequest, error) {
	issues := make([]string, 0, len(in.Issues))
	for _, issue := range in.Issues {
		if issue = strings.TrimSpace(issue); issue != "" {
			issues = append(issues, issue)
		}
	}
	if len(issues) == 0 {
		return nil, domain.Invalidf("at least one issue is required")
	}
	if in.LeaseID != nil {
		if _, err := s.leases.FindByIDForTenant(ctx, *in.LeaseID, in.TenantID); err != nil {
			return nil, err
		}
	}

	req := &domain.MaintenanceRequest{
		TenantID: in.TenantID,
		LeaseID:  in.LeaseID,
		Issues:   issues,
		Details:  strings.TrimSpace(in.Details),
		Status:   domain.MaintenancePending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	metrics.MaintenanceRequestsTotal.Inc()
	s.log.Info().Uint("request_id", req.ID).Uint("tenant_id", req.TenantID).Int("issues", len(issues)).Msg("maintenance request submitted")
	s.activity.Record(newActivity(domain.ActivityMaintenanceCreated, "maintenance_request", req.ID,
		domain.Actor{UserID: in.TenantID, Role: domain.RoleTenant}, map[string]string{"issues": strings.Join(issues, ",")}))
	return req, nil
}

// ListForTenant returns the tenant's requests, newest first.
func (s *MaintenanceService) ListForTenant(ctx context.Context, tenantID uint) ([]*domain.MaintenanceRequest, error) {
	return s.requests.List(ctx, ports.MaintenanceFilter{TenantID: tenantID})
}

// List returns the admin queue, optionally narrowed to one status.
func (s *MaintenanceService) List(ctx context.Context, status string) ([]*domain.MaintenanceRequest, error) {
	st, err := parseMaintenanceStatus(status, true)
	if err != nil {
		return nil, err
	}
	return s.requests.List(ctx, ports.MaintenanceFilter{Status: st})
}

// SetStatus overwrites the status of request id.
func (s *MaintenanceService) SetStatus(ctx context.Context, id uint, status string, actor domain.Actor) (*domain.MaintenanceRequest, error) {
	st, err := parseMaintenanceStatus(status, false)
	if err != nil {
		return nil, err
	}
	if err := s.requests.UpdateStatus(ctx, id, st); err != nil {
		return nil, err
	}

	s.log.Info().Uint("request_id", id).Str("status", string(st)).Msg("maintenance status set")
	s.activity.Record(newActivity(domain.ActivityMaintenanceStatus, "maintenance_request", id, actor,
		map[string]string{"to": string(st)}))
	return s.requests.FindByID(ctx, id)
}

func parseMaintenanceStatus(raw string, allowEmpty bool) (domain.MaintenanceStatus, error) {
	st := domain.MaintenanceStatus(strings.ToLower(strings.TrimSpace(raw)))
	if st == "" && allowEmpty {
		return "", nil
	}
	if !st.Valid() {
		return "", domain.Invalidf("status must be one of: pending, in_progress, completed")
	}
	return st, nil
}
