package domain

import (
	"math"
	"time"
)

// PaymentStatusPaid is the only status ever written for a recorded payment.
const PaymentStatusPaid = "Paid"

// PaymentIntentSucceeded is the provider status that confirms a charge.
const PaymentIntentSucceeded = "succeeded"

// Payment is a confirmed rent payment against a lease.
type Payment struct {
	ID          uint      `json:"id"`
	LeaseID     uint      `json:"lease_id"`
	Amount      float64   `json:"amount"`
	PaymentDate time.Time `json:"payment_date"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
	ExternalRef string    `json:"external_ref"`
	CreatedAt   time.Time `json:"created_at"`

	TenantEmail string `json:"tenant_email,omitempty"`
}

// ToMinorUnits converts a major-unit amount into integer cents.
func ToMinorUnits(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, Invalidf("amount must be a finite number")
	}
	minor := math.Round(amount * 100)
	if minor <= 0 {
		return 0, Invalidf("amount must be positive")
	}
	if minor >= math.MaxInt64 {
		return 0, Invalidf("amount is too large")
	}
	return int64(minor), nil
}

// FromMinorUnits converts integer cents back into a major-unit amount.
func FromMinorUnits(minor int64) float64 {
	return float64(minor) / 100
}
