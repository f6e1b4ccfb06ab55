package domain

import "time"

// MaintenanceStatus is the progress of a maintenance request.
type MaintenanceStatus string

const (
	MaintenancePending    MaintenanceStatus = "pending"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
)

// Valid reports whether s is a known status.
func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenancePending, MaintenanceInProgress, MaintenanceCompleted:
		return true
	}
	return false
}

// MaintenanceRequest is a tenant-reported set of issues.
type MaintenanceRequest struct {
	ID        uint              `json:"id"`
	TenantID  uint              `json:"tenant_id"`
	LeaseID   *uint             `json:"lease_id,omitempty"`
	Issues    []string          `json:"issues"`
	Details   string            `json:"details,omitempty"`
	Status    MaintenanceStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	TenantEmail string `json:"tenant_email,omitempty"`
}
