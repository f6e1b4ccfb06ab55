package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/parkview/rental-system/internal/core/domain"
	"github.com/parkview/rental-system/internal/core/ports"
	"github.com/parkview/rental-system/internal/pkg/metrics"
)

// LeaseService owns the lease lifecycle and with it the apartment occupancy
// flag: is_occupied is true exactly while an active lease references the unit.
type LeaseService struct {
	leases     ports.LeaseRepository
	apartments ports.ApartmentRepository
	users      ports.UserRepository
	tx         ports.Transactor
	activity   ports.ActivityRecorder
	log        zerolog.Logger
	now        func() time.Time
}

func NewLeaseService(
	leases ports.LeaseRepository,
	apartments ports.ApartmentRepository,
	users ports.UserRepository,
	tx ports.Transactor,
	activity ports.ActivityRecorder,
	log zerolog.Logger,
) *LeaseService {
	return &LeaseService{
		leases:     leases,
		apartments: apartments,
		users:      users,
		tx:         tx,
		activity:   recorderOrDiscard(activity),
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create opens an active lease and marks the apartment occupied in one
// transaction. An apartment that is already occupied yields ErrApartmentOccupied.
func (s *LeaseService) Create(ctx context.Context, in ports.CreateLeaseInput) (*domain.Lease, error) {
	switch {
	case in.ApartmentID == 0 || in.TenantID == 0:
		return nil, domain.Invalidf("apartment_id and tenant_id are required")
	case in.StartDate.IsZero() || in.EndDate.IsZero():
		return nil, domain.Invalidf("start_date and end_date are required")
	case in.EndDate.Before(in.StartDate):
		return nil, domain.Invalidf("end_date must not be before start_date")
	case in.RentAmount <= 0 || !finite(in.RentAmount):
		return nil, domain.Invalidf("rent_amount must be positive")
	}

	lease := &domain.Lease{
		ApartmentID: in.ApartmentID,
		TenantID:    in.TenantID,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		RentAmount:  in.RentAmount,
		Status:      domain.LeaseActive,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.apartments.FindByID(ctx, in.ApartmentID); err != nil {
			return err
		}
		tenant, err := s.users.FindByID(ctx, in.TenantID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NotFoundf("tenant %d not found", in.TenantID)
			}
			return err
		}
		if tenant.Role != domain.RoleTenant {
			return domain.NotFoundf("tenant %d not found", in.TenantID)
		}

		claimed, err := s.apartments.MarkOccupied(ctx, in.ApartmentID)
		if err != nil {
			return err
		}
		if !claimed {
			return domain.ErrApartmentOccupied
		}
		return s.leases.Create(ctx, lease)
	})
	if err != nil {
		if errors.Is(err, domain.ErrApartmentOccupied) {
			metrics.LeasesTotal.WithLabelValues("conflict").Inc()
		}
		return nil, err
	}

	metrics.LeasesTotal.WithLabelValues("created").Inc()
	s.log.Info().Uint("lease_id", lease.ID).Uint("apartment_id", lease.ApartmentID).Uint("tenant_id", lease.TenantID).Msg("lease created")
	s.activity.Record(newActivity(domain.ActivityLeaseCreated, "lease", lease.ID, in.Actor, map[string]string{
		"apartment_id": strconv.FormatUint(uint64(lease.ApartmentID), 10),
		"tenant_id":    strconv.FormatUint(uint64(lease.TenantID), 10),
	}))

	if full, err := s.leases.FindByID(ctx, lease.ID); err == nil {
		return full, nil
	}
	return lease, nil
}

// End closes lease id and vacates its apartment in one transaction. Ending an
// already ended lease succeeds without changes.
func (s *LeaseService) End(ctx context.Context, id uint, actor domain.Actor) (*domain.Lease, error) {
	lease, err := s.leases.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !lease.IsActive() {
		return lease, nil
	}

	endedAt := s.now()
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.leases.MarkEnded(ctx, id, endedAt); err != nil {
			return err
		}
		return s.apartments.MarkVacant(ctx, lease.ApartmentID)
	})
	if errors.Is(err, domain.ErrLeaseNotFound) {
		// Ended concurrently by another request.
		return s.leases.FindByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	metrics.LeasesTotal.WithLabelValues("ended").Inc()
	s.log.Info().Uint("lease_id", id).Uint("apartment_id", lease.ApartmentID).Msg("lease ended")
	s.activity.Record(newActivity(domain.ActivityLeaseEnded, "lease", id, actor, map[string]string{
		"apartment_id": strconv.FormatUint(uint64(lease.ApartmentID), 10),
	}))

	return s.leases.FindByID(ctx, id)
}

// List returns every lease for admins, optionally narrowed to one status.
func (s *LeaseService) List(ctx context.Context, status string) ([]*domain.Lease, error) {
	st := domain.LeaseStatus(strings.ToLower(strings.TrimSpace(status)))
	if st != "" && st != domain.LeaseActive && st != domain.LeaseEnded {
		return nil, domain.Invalidf("status must be active or ended")
	}
	return s.leases.List(ctx, ports.LeaseFilter{Status: st})
}

// ListForTenant groups the tenant's leases into current and past.
func (s *LeaseService) ListForTenant(ctx context.Context, tenantID uint) (*ports.TenantLeases, error) {
	leases, err := s.leases.List(ctx, ports.LeaseFilter{TenantID: tenantID})
	if err != nil {
		return nil, err
	}
	out := &ports.TenantLeases{Current: []*domain.Lease{}, Past: []*domain.Lease{}}
	for _, l := range leases {
		if l.IsActive() {
			out.Current = append(out.Current, l)
		} else {
			out.Past = append(out.Past, l)
		}
	}
	return out, nil
}
