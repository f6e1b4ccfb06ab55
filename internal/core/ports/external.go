package ports

import (
	"context"
	"time"

	"github.com/parkview/rental-system/internal/core/domain"
)

// PaymentIntentRequest asks the provider to open a charge.
type PaymentIntentRequest struct {
	AmountMinor int64
	Currency    string
	Metadata    map[string]string
}

// PaymentIntent is the provider's view of a charge.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
	AmountMinor  int64
	Currency     string
	Metadata     map[string]string
}

// PaymentProvider is the external payment processor.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntent, error)
	RetrieveIntent(ctx context.Context, id string) (*PaymentIntent, error)
}

// PaymentGuard claims a provider intent id for the duration of a recording attempt.
type PaymentGuard interface {
	// Claim reports false when another request already holds the id.
	Claim(ctx context.Context, intentID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, intentID string) error
}

// ActivityRecorder accepts activity events after the mutation that produced them
// has committed. Implementations must not block the caller.
type ActivityRecorder interface {
	Record(event domain.ActivityEvent)
}
