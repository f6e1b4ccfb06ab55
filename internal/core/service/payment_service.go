package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/parkview/rental-system/internal/core/domain"
	"github.com/parkview/rental-system/internal/core/ports"
	"github.com/parkview/rental-system/internal/pkg/metrics"
)

const (
	defaultProviderTimeout = 10 * time.Second
	paymentClaimTTL        = 2 * time.Minute
)

// PaymentOptions tunes the payment service.
type PaymentOptions struct {
	Currency string
	// Timeout bounds every provider call.
	Timeout time.Duration
}

// PaymentService opens provider intents for rent and records payments once
// the provider confirms them. Nothing is stored before confirmation.
type PaymentService struct {
	leases   ports.LeaseRepository
	payments ports.PaymentRepository
	tx       ports.Transactor
	provider ports.PaymentProvider
	guard    ports.PaymentGuard // optional
	activity ports.ActivityRecorder
	opts     PaymentOptions
	log      zerolog.Logger
}

func NewPaymentService(
	leases ports.LeaseRepository,
	payments ports.PaymentRepository,
	tx ports.Transactor,
	provider ports.PaymentProvider,
	guard ports.PaymentGuard,
	activity ports.ActivityRecorder,
	opts PaymentOptions,
	log zerolog.Logger,
) *PaymentService {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultProviderTimeout
	}
	if opts.Currency == "" {
		opts.Currency = "usd"
	}
	return &PaymentService{
		leases:   leases,
		payments: payments,
		tx:       tx,
		provider: provider,
		guard:    guard,
		activity: recorderOrDiscard(activity),
		opts:     opts,
		log:      log,
	}
}

// CreateIntent opens a provider intent for one month of rent on the tenant's lease.
func (s *PaymentService) CreateIntent(ctx context.Context, tenantID, leaseID uint) (*ports.PaymentIntentResult, error) {
	if leaseID == 0 {
		return nil, domain.Invalidf("lease_id is required")
	}
	lease, err := s.leases.FindByIDForTenant(ctx, leaseID, tenantID)
	if err != nil {
		return nil, err
	}

	minor, err := domain.ToMinorUnits(lease.RentAmount)
	if err != nil {
		return nil, err
	}

	pctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	intent, err := s.provider.CreateIntent(pctx, ports.PaymentIntentRequest{
		AmountMinor: minor,
		Currency:    s.opts.Currency,
		Metadata: map[string]string{
			"lease_id":  strconv.FormatUint(uint64(lease.ID), 10),
			"tenant_id": strconv.FormatUint(uint64(tenantID), 10),
		},
	})
	metrics.PaymentProviderDuration.WithLabelValues("create_intent").Observe(time.Since(start).Seconds())
	if err != nil {
		s.log.Error().Err(err).Uint("lease_id", lease.ID).Msg("create payment intent failed")
		return nil, domain.ExternalErr("create payment intent", err)
	}

	return &ports.PaymentIntentResult{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          domain.FromMinorUnits(minor),
		Currency:        s.opts.Currency,
	}, nil
}

// Record stores a payment after verifying with the provider that the intent
// succeeded and belongs to the lease. The stored amount is the provider's.
// Any provider failure leaves nothing written.
func (s *PaymentService) Record(ctx context.Context, in ports.RecordPaymentInput) (*domain.Payment, error) {
	intentID := strings.TrimSpace(in.IntentID)
	method := strings.TrimSpace(in.Method)
	if in.LeaseID == 0 || in.PaymentDate.IsZero() || method == "" || intentID == "" {
		return nil, domain.Invalidf("lease_id, payment_date, payment_method and stripe_payment_id are required")
	}

	lease, err := s.leases.FindByIDForTenant(ctx, in.LeaseID, in.TenantID)
	if err != nil {
		return nil, err
	}

	intent, err := s.retrieve(ctx, intentID)
	if err != nil {
		metrics.PaymentsTotal.WithLabelValues("provider_error").Inc()
		s.log.Error().Err(err).Str("intent_id", intentID).Uint("lease_id", lease.ID).Msg("payment verification failed")
		return nil, domain.ExternalErr("retrieve payment intent", err)
	}
	if intent.Status != domain.PaymentIntentSucceeded {
		metrics.PaymentsTotal.WithLabelValues("not_completed").Inc()
		return nil, domain.ErrPaymentNotCompleted
	}
	if ref, ok := intent.Metadata["lease_id"]; ok && ref != strconv.FormatUint(uint64(lease.ID), 10) {
		metrics.PaymentsTotal.WithLabelValues("lease_mismatch").Inc()
		s.log.Warn().Str("intent_id", intentID).Str("intent_lease", ref).Uint("lease_id", lease.ID).Msg("payment intent belongs to another lease")
		return nil, domain.ErrLeaseMismatch
	}

	if s.guard != nil {
		claimed, err := s.guard.Claim(ctx, intentID, paymentClaimTTL)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("intent_id", intentID).Msg("payment claim unavailable, relying on unique reference")
		case !claimed:
			metrics.PaymentsTotal.WithLabelValues("duplicate").Inc()
			return nil, domain.ErrPaymentInProgress
		default:
			defer s.release(intentID)
		}
	}

	payment := &domain.Payment{
		LeaseID:     lease.ID,
		Amount:      domain.FromMinorUnits(intent.AmountMinor),
		PaymentDate: in.PaymentDate,
		Method:      method,
		Status:      domain.PaymentStatusPaid,
		ExternalRef: intentID,
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.payments.Create(ctx, payment)
	})
	if err != nil {
		if errors.Is(err, domain.ErrPaymentAlreadyRecorded) {
			metrics.PaymentsTotal.WithLabelValues("duplicate").Inc()
		}
		return nil, err
	}

	metrics.PaymentsTotal.WithLabelValues("recorded").Inc()
	s.log.Info().Uint("payment_id", payment.ID).Uint("lease_id", lease.ID).Float64("amount", payment.Amount).Msg("payment recorded")
	s.activity.Record(newActivity(domain.ActivityPaymentRecorded, "payment", payment.ID,
		domain.Actor{UserID: in.TenantID, Role: domain.RoleTenant},
		map[string]string{
			"lease_id":  strconv.FormatUint(uint64(lease.ID), 10),
			"intent_id": intentID,
			"amount":    strconv.FormatFloat(payment.Amount, 'f', 2, 64),
		}))
	return payment, nil
}

func (s *PaymentService) retrieve(ctx context.Context, id string) (*ports.PaymentIntent, error) {
	pctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	intent, err := s.provider.RetrieveIntent(pctx, id)
	metrics.PaymentProviderDuration.WithLabelValues("retrieve_intent").Observe(time.Since(start).Seconds())
	return intent, err
}

// release drops the claim once the attempt is over; the unique reference keeps
// a recorded payment from being stored twice after that.
func (s *PaymentService) release(intentID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.guard.Release(ctx, intentID); err != nil {
		s.log.Warn().Err(err).Str("intent_id", intentID).Msg("payment claim release failed")
	}
}

func (s *PaymentService) ListForTenant(ctx context.Context, tenantID uint) ([]*domain.Payment, error) {
	return s.payments.List(ctx, ports.PaymentFilter{TenantID: tenantID})
}

func (s *PaymentService) List(ctx context.Context) ([]*domain.Payment, error) {
	return s.payments.List(ctx, ports.PaymentFilter{})
}
