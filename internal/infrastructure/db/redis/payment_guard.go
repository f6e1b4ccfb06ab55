package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultClaimTTL = 2 * time.Minute

// PaymentGuard holds short-lived claims on provider payment intent ids so two
// concurrent requests cannot record the same charge.
// Key format: payment:claim:<intent_id>
type PaymentGuard struct {
	client *redis.Client
}

// NewPaymentGuard creates a PaymentGuard wrapping the given Redis client.
func NewPaymentGuard(client *redis.Client) *PaymentGuard {
	return &PaymentGuard{client: client}
}

// Claim reports whether the caller now holds intentID. The claim expires after
// ttl so a crashed holder never blocks the id forever.
func (g *PaymentGuard) Claim(ctx context.Context, intentID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = defaultClaimTTL
	}
	ok, err := g.client.SetNX(ctx, claimKey(intentID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("payment claim: %w", err)
	}
	return ok, nil
}

// Release drops the claim on intentID.
func (g *PaymentGuard) Release(ctx context.Context, intentID string) error {
	if err := g.client.Del(ctx, claimKey(intentID)).Err(); err != nil {
		return fmt.Errorf("payment release: %w", err)
	}
	return nil
}

func claimKey(intentID string) string {
	return "payment:claim:" + intentID
}
