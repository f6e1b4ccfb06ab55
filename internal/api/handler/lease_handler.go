package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parkview/rental-system/internal/core/ports"
)

// LeaseHandler exposes the lease lifecycle.
type LeaseHandler struct {
	service ports.LeaseService
}

func NewLeaseHandler(service ports.LeaseService) *LeaseHandler {
	return &LeaseHandler{service: service}
}

type createLeaseRequest struct {
	ApartmentID uint    `json:"apartment_id" validate:"required"`
	TenantID    uint    `json:"tenant_id" validate:"required"`
	StartDate   string  `json:"start_date" validate:"required"`
	EndDate     string  `json:"end_date" validate:"required"`
	RentAmount  float64 `json:"rent_amount" validate:"gt=0"`
}

// TenantLeases returns the caller's current and past leases.
//
// @Summary      List own leases
// @Tags         leases
// @Produce      json
// @Success      200  {object}  ports.TenantLeases
// @Router       /tenants/leases [get]
func (h *LeaseHandler) TenantLeases(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	leases, err := h.service.ListForTenant(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, leases)
}

// AdminList returns all leases, optionally filtered by status.
//
// @Summary      List leases
// @Tags         admin
// @Produce      json
// @Param        status  query  string  false  "active or ended"
// @Success      200     {array}  domain.Lease
// @Router       /admin/lease [get]
func (h *LeaseHandler) AdminList(c echo.Context) error {
	leases, err := h.service.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, leases)
}

// Create opens a lease and marks the apartment occupied.
//
// @Summary      Create lease
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      createLeaseRequest  true  "Lease"
// @Success      201   {object}  domain.Lease
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /admin/lease [post]
func (h *LeaseHandler) Create(c echo.Context) error {
	who, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req createLeaseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return err
	}

	lease, err := h.service.Create(c.Request().Context(), ports.CreateLeaseInput{
		ApartmentID: req.ApartmentID,
		TenantID:    req.TenantID,
		StartDate:   start,
		EndDate:     end,
		RentAmount:  req.RentAmount,
		Actor:       actorOf(who),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, lease)
}

// End closes a lease and vacates the apartment. Ending an ended lease is a no-op.
//
// @Summary      End lease
// @Tags         admin
// @Produce      json
// @Param        id   path      int  true  "Lease ID"
// @Success      200  {object}  domain.Lease
// @Failure      404  {object}  map[string]string
// @Router       /admin/lease/{id}/end [put]
func (h *LeaseHandler) End(c echo.Context) error {
	who, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	lease, err := h.service.End(c.Request().Context(), id, actorOf(who))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lease)
}
