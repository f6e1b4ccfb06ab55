package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parkview/rental-system/internal/core/ports"
)

// PaymentHandler opens and records rent payments.
type PaymentHandler struct {
	service ports.PaymentService
}

func NewPaymentHandler(service ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

type createIntentRequest struct {
	LeaseID uint `json:"lease_id" validate:"required"`
}

type recordPaymentRequest struct {
	LeaseID         uint   `json:"lease_id"`
	PaymentDate     string `json:"payment_date"`
	PaymentMethod   string `json:"payment_method"`
	StripePaymentID string `json:"stripe_payment_id"`
}

// CreateIntent opens a provider payment intent for one month of the caller's lease.
//
// @Summary      Create payment intent
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      createIntentRequest  true  "Lease"
// @Success      200   {object}  ports.PaymentIntentResult
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /stripe/create-payment-intent [post]
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req createIntentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.service.CreateIntent(c.Request().Context(), id.UserID, req.LeaseID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Record stores a payment after the provider confirms it succeeded.
//
// @Summary      Record payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      recordPaymentRequest  true  "Confirmed payment"
// @Success      201   {object}  domain.Payment
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tenants/payments [post]
func (h *PaymentHandler) Record(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req recordPaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	paidOn, err := parseDate("payment_date", req.PaymentDate)
	if err != nil {
		return err
	}

	payment, err := h.service.Record(c.Request().Context(), ports.RecordPaymentInput{
		TenantID:    id.UserID,
		LeaseID:     req.LeaseID,
		PaymentDate: paidOn,
		Method:      req.PaymentMethod,
		IntentID:    req.StripePaymentID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, payment)
}

// ListMine returns the caller's payments, newest first.
//
// @Summary      List own payments
// @Tags         payments
// @Produce      json
// @Success      200  {array}  domain.Payment
// @Router       /tenants/payments [get]
func (h *PaymentHandler) ListMine(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	payments, err := h.service.ListForTenant(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(payments))
}

// AdminList returns every recorded payment.
//
// @Summary      List payments
// @Tags         admin
// @Produce      json
// @Success      200  {array}  domain.Payment
// @Router       /admin/payments [get]
func (h *PaymentHandler) AdminList(c echo.Context) error {
	payments, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(payments))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
