// Package metrics defines and registers all custom Prometheus metrics for the
// rental service. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on import via
// promauto and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rental"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionFailuresTotal counts rejected session verifications.
// Labels:
//   - scope: "tenant" or "admin"
//   - reason: "missing-token", "invalid-or-expired" or "wrong-role"
var SessionFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_failures_total",
		Help:      "Total number of requests rejected by session verification.",
	},
	[]string{"scope", "reason"},
)

// ── Lifecycle metrics ─────────────────────────────────────────────────────────

// LeasesTotal counts lease transitions.
// Label:
//   - action: "created", "ended" or "conflict"
var LeasesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leases_total",
		Help:      "Total number of lease lifecycle transitions.",
	},
	[]string{"action"},
)

// PaymentsTotal counts payment recording outcomes.
// Label:
//   - result: "recorded", "not_completed", "lease_mismatch", "duplicate", "provider_error"
var PaymentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_total",
		Help:      "Total number of payment recording attempts, by outcome.",
	},
	[]string{"result"},
)

// PaymentProviderDuration measures calls to the external payment provider.
// Label:
//   - operation: "create_intent" or "retrieve_intent"
var PaymentProviderDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "payment_provider_duration_seconds",
		Help:      "Duration of payment provider calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ApplicationsTotal counts submitted applications.
var ApplicationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_submitted_total",
		Help:      "Total number of rental applications submitted.",
	},
)

// MaintenanceRequestsTotal counts submitted maintenance requests.
var MaintenanceRequestsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "maintenance_requests_submitted_total",
		Help:      "Total number of maintenance requests submitted.",
	},
)

// ── Activity trail metrics ────────────────────────────────────────────────────

// ActivityQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityDroppedTotal counts events discarded because a worker buffer was full.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of activity events dropped because the queue was full.",
	},
)

// ActivityWriteErrorsTotal counts failed activity trail inserts.
var ActivityWriteErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_write_errors_total",
		Help:      "Total number of activity events that failed to persist.",
	},
)

// ── Occupancy metrics ─────────────────────────────────────────────────────────

// OccupancyDriftApartments is the number of apartments whose occupied flag
// disagrees with their active leases, as of the last audit.
var OccupancyDriftApartments = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "occupancy_drift_apartments",
		Help:      "Apartments whose occupancy flag disagrees with their active leases.",
	},
)

// ApartmentsOccupied is the occupied apartment count as of the last audit.
var ApartmentsOccupied = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "apartments_occupied",
		Help:      "Number of occupied apartments.",
	},
)

// ApartmentsVacant is the vacant apartment count as of the last audit.
var ApartmentsVacant = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "apartments_vacant",
		Help:      "Number of vacant apartments.",
	},
)
