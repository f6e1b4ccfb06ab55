package scheduler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/parkview/rental-system/internal/core/domain"
	"github.com/parkview/rental-system/internal/pkg/metrics"
)

type stubSource struct {
	drift    []domain.OccupancyDrift
	occupied int64
	vacant   int64
	err      error
	calls    atomic.Int32
}

func (s *stubSource) OccupancyDrift(context.Context) ([]domain.OccupancyDrift, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.drift, nil
}

func (s *stubSource) CountByOccupancy(context.Context) (int64, int64, error) {
	return s.occupied, s.vacant, nil
}

func TestRunOnce_SetsGaugesAndLogsDrift(t *testing.T) {
	src := &stubSource{
		drift: []domain.OccupancyDrift{
			{ApartmentID: 7, IsOccupied: true, ActiveLeases: 0},
			{ApartmentID: 9, IsOccupied: false, ActiveLeases: 1},
		},
		occupied: 3,
		vacant:   5,
	}
	var buf bytes.Buffer
	a := NewOccupancyAuditor(src, "", zerolog.New(&buf))

	drift, err := a.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(drift) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(drift))
	}
	if got := testutil.ToFloat64(metrics.OccupancyDriftApartments); got != 2 {
		t.Fatalf("drift gauge = %v", got)
	}
	if got := testutil.ToFloat64(metrics.ApartmentsOccupied); got != 3 {
		t.Fatalf("occupied gauge = %v", got)
	}
	if got := testutil.ToFloat64(metrics.ApartmentsVacant); got != 5 {
		t.Fatalf("vacant gauge = %v", got)
	}
	if n := strings.Count(buf.String(), "occupancy invariant violated"); n != 2 {
		t.Fatalf("expected 2 error logs, got %d: %s", n, buf.String())
	}
}

func TestRunOnce_SourceError(t *testing.T) {
	src := &stubSource{err: errors.New("db down")}
	a := NewOccupancyAuditor(src, "", zerolog.Nop())

	if _, err := a.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStart_InvalidSchedule(t *testing.T) {
	a := NewOccupancyAuditor(&stubSource{}, "not a schedule", zerolog.Nop())
	if err := a.Start(context.Background()); err == nil {
		t.Fatalf("expected schedule error")
	}
}

func TestStart_RunsOnSchedule(t *testing.T) {
	src := &stubSource{}
	a := NewOccupancyAuditor(src, "@every 1s", zerolog.Nop())
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := a.Start(context.Background()); err == nil {
		t.Fatalf("second Start should fail")
	}

	deadline := time.Now().Add(3 * time.Second)
	for src.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	a.Stop()

	if src.calls.Load() == 0 {
		t.Fatalf("audit job never ran")
	}
}
