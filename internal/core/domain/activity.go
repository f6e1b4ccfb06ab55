package domain

import "time"

// ActivityKind names a lifecycle transition recorded in the activity trail.
type ActivityKind string

const (
	ActivityUserSignedUp       ActivityKind = "user.signed_up"
	ActivityApartmentCreated   ActivityKind = "apartment.created"
	ActivityApplicationCreated ActivityKind = "application.submitted"
	ActivityApplicationStatus  ActivityKind = "application.status_set"
	ActivityLeaseCreated       ActivityKind = "lease.created"
	ActivityLeaseEnded         ActivityKind = "lease.ended"
	ActivityPaymentRecorded    ActivityKind = "payment.recorded"
	ActivityMaintenanceCreated ActivityKind = "maintenance.submitted"
	ActivityMaintenanceStatus  ActivityKind = "maintenance.status_set"
)

// Actor identifies who performed an operation.
type Actor struct {
	UserID uint
	Role   string
}

// ActivityEvent is an append-only record of a committed lifecycle mutation.
type ActivityEvent struct {
	ID         string            `json:"id"`
	Kind       ActivityKind      `json:"kind"`
	EntityType string            `json:"entity_type"`
	EntityID   uint              `json:"entity_id"`
	ActorID    uint              `json:"actor_id"`
	ActorRole  string            `json:"actor_role"`
	Details    map[string]string `json:"details,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
