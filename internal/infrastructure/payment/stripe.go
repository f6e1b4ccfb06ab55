// Package payment adapts the Stripe PaymentIntents API to ports.PaymentProvider.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"

	"github.com/parkview/rental-system/internal/core/ports"
)

const defaultHTTPTimeout = 15 * time.Second

// StripeConfig captures the settings for the Stripe client.
type StripeConfig struct {
	SecretKey string
	// APIURL overrides the Stripe endpoint; empty uses the live API.
	APIURL      string
	HTTPTimeout time.Duration
}

// StripeProvider implements ports.PaymentProvider. Network retries are disabled;
// callers bound each call with their own context deadline.
type StripeProvider struct {
	intents paymentintent.Client
}

func NewStripeProvider(cfg StripeConfig, log zerolog.Logger) (*StripeProvider, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("stripe: empty secret key")
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	backendCfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     leveledLogger{log: log.With().Str("component", "stripe").Logger()},
	}
	if cfg.APIURL != "" {
		backendCfg.URL = stripe.String(cfg.APIURL)
	}

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg)
	return &StripeProvider{intents: paymentintent.Client{B: backend, Key: cfg.SecretKey}}, nil
}

func (p *StripeProvider) CreateIntent(ctx context.Context, req ports.PaymentIntentRequest) (*ports.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountMinor),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := p.intents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create payment intent: %w", err)
	}
	return toIntent(pi), nil
}

func (p *StripeProvider) RetrieveIntent(ctx context.Context, id string) (*ports.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := p.intents.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe retrieve payment intent %s: %w", id, err)
	}
	return toIntent(pi), nil
}

func toIntent(pi *stripe.PaymentIntent) *ports.PaymentIntent {
	meta := make(map[string]string, len(pi.Metadata))
	for k, v := range pi.Metadata {
		meta[k] = v
	}
	return &ports.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		AmountMinor:  pi.Amount,
		Currency:     string(pi.Currency),
		Metadata:     meta,
	}
}

// leveledLogger routes stripe-go client logs into zerolog.
type leveledLogger struct {
	log zerolog.Logger
}

func (l leveledLogger) Debugf(format string, v ...any) { l.log.Debug().Msgf(format, v...) }
func (l leveledLogger) Infof(format string, v ...any)  { l.log.Debug().Msgf(format, v...) }
func (l leveledLogger) Warnf(format string, v ...any)  { l.log.Warn().Msgf(format, v...) }
func (l leveledLogger) Errorf(format string, v ...any) { l.log.Error().Msgf(format, v...) }
