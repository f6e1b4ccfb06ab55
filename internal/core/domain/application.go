package domain

import (
	"strings"
	"time"
)

// ApplicationStatus is the review state of a rental application.
type ApplicationStatus string

const (
	ApplicationSubmitted   ApplicationStatus = "submitted"
	ApplicationUnderReview ApplicationStatus = "under_review"
	ApplicationApproved    ApplicationStatus = "approved"
)

// legacyApplicationStatuses maps values written by older clients onto the current set.
var legacyApplicationStatuses = map[string]ApplicationStatus{
	"pending":  ApplicationSubmitted,
	"rejected": ApplicationApproved,
	"leased":   ApplicationApproved,
}

// NormalizeApplicationStatus maps a stored status onto the canonical set.
// Unknown values are returned unchanged.
func NormalizeApplicationStatus(raw string) ApplicationStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	if mapped, ok := legacyApplicationStatuses[s]; ok {
		return mapped
	}
	return ApplicationStatus(s)
}

// Valid reports whether s is one of the canonical statuses.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationSubmitted, ApplicationUnderReview, ApplicationApproved:
		return true
	}
	return false
}

// Application is a tenant's request to rent.
type Application struct {
	ID             uint              `json:"id"`
	Email          string            `json:"email"`
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	Phone          string            `json:"phone"`
	CurrentAddress string            `json:"current_address,omitempty"`
	Employer       string            `json:"employer,omitempty"`
	MonthlyIncome  float64           `json:"monthly_income,omitempty"`
	MoveInDate     *time.Time        `json:"move_in_date,omitempty"`
	Occupants      int               `json:"occupants,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	ApartmentID    *uint             `json:"apartment_id,omitempty"`
	Status         ApplicationStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
