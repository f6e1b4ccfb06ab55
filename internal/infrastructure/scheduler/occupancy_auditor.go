// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/parkview/rental-system/internal/core/domain"
	"github.com/parkview/rental-system/internal/pkg/metrics"
)

const (
	DefaultAuditSchedule = "@every 15m"
	auditTimeout         = 30 * time.Second
)

// OccupancySource is the read side the auditor needs from the apartment store.
type OccupancySource interface {
	OccupancyDrift(ctx context.Context) ([]domain.OccupancyDrift, error)
	CountByOccupancy(ctx context.Context) (occupied, vacant int64, err error)
}

// OccupancyAuditor periodically checks that every occupied apartment has exactly
// one active lease and every vacant one has none. It reports, it never repairs.
type OccupancyAuditor struct {
	source   OccupancySource
	schedule string
	log      zerolog.Logger

	cron    *cron.Cron
	mu      sync.Mutex
	running bool
}

func NewOccupancyAuditor(source OccupancySource, schedule string, log zerolog.Logger) *OccupancyAuditor {
	if schedule == "" {
		schedule = DefaultAuditSchedule
	}
	return &OccupancyAuditor{
		source:   source,
		schedule: schedule,
		log:      log.With().Str("component", "occupancy_auditor").Logger(),
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Start registers the audit job and starts the cron loop. ctx bounds every run.
func (a *OccupancyAuditor) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return fmt.Errorf("occupancy auditor already running")
	}

	if _, err := a.cron.AddFunc(a.schedule, func() {
		if _, err := a.RunOnce(ctx); err != nil {
			a.log.Error().Err(err).Msg("occupancy audit failed")
		}
	}); err != nil {
		return fmt.Errorf("invalid audit schedule %q: %w", a.schedule, err)
	}

	a.cron.Start()
	a.running = true
	a.log.Info().Str("schedule", a.schedule).Msg("occupancy auditor started")
	return nil
}

// Stop halts scheduling and waits for an in-flight run to finish.
func (a *OccupancyAuditor) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return
	}
	<-a.cron.Stop().Done()
	a.running = false
	a.log.Info().Msg("occupancy auditor stopped")
}

// RunOnce performs a single audit pass and returns the violations found.
func (a *OccupancyAuditor) RunOnce(ctx context.Context) ([]domain.OccupancyDrift, error) {
	ctx, cancel := context.WithTimeout(ctx, auditTimeout)
	defer cancel()

	drift, err := a.source.OccupancyDrift(ctx)
	if err != nil {
		return nil, fmt.Errorf("occupancy drift query: %w", err)
	}
	occupied, vacant, err := a.source.CountByOccupancy(ctx)
	if err != nil {
		return nil, fmt.Errorf("occupancy count query: %w", err)
	}

	metrics.OccupancyDriftApartments.Set(float64(len(drift)))
	metrics.ApartmentsOccupied.Set(float64(occupied))
	metrics.ApartmentsVacant.Set(float64(vacant))

	for _, d := range drift {
		a.log.Error().
			Uint("apartment_id", d.ApartmentID).
			Bool("is_occupied", d.IsOccupied).
			Int("active_leases", d.ActiveLeases).
			Msg("occupancy invariant violated")
	}

	a.log.Debug().
		Int("drift", len(drift)).
		Int64("occupied", occupied).
		Int64("vacant", vacant).
		Msg("occupancy audit complete")
	return drift, nil
}
