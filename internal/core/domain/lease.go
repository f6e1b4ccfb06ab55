package domain

import "time"

// LeaseStatus represents the lifecycle state of a lease.
type LeaseStatus string

const (
	LeaseActive LeaseStatus = "active"
	LeaseEnded  LeaseStatus = "ended"
)

// Lease binds a tenant to an apartment for a period at a fixed rent.
type Lease struct {
	ID          uint        `json:"id"`
	ApartmentID uint        `json:"apartment_id"`
	TenantID    uint        `json:"tenant_id"`
	StartDate   time.Time   `json:"start_date"`
	EndDate     time.Time   `json:"end_date"`
	RentAmount  float64     `json:"rent_amount"`
	Status      LeaseStatus `json:"status"`
	EndedAt     *time.Time  `json:"ended_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`

	// Display fields joined from apartments and users.
	ApartmentAddress string `json:"apartment_address,omitempty"`
	TenantEmail      string `json:"tenant_email,omitempty"`
}

// IsActive reports whether the lease currently holds its apartment.
func (l *Lease) IsActive() bool {
	return l.Status == LeaseActive
}
