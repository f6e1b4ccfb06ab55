package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parkview/rental-system/internal/core/ports"
)

// MaintenanceHandler tracks tenant maintenance requests.
type MaintenanceHandler struct {
	service ports.MaintenanceService
}

func NewMaintenanceHandler(service ports.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{service: service}
}

type maintenanceRequest struct {
	Issues  []string `json:"issues"`
	Details string   `json:"details"`
	LeaseID *uint    `json:"lease_id"`
}

// Submit files a maintenance request for the caller.
//
// @Summary      Submit maintenance request
// @Tags         maintenance
// @Accept       json
// @Produce      json
// @Param        body  body      maintenanceRequest  true  "Request"
// @Success      201   {object}  domain.MaintenanceRequest
// @Failure      400   {object}  map[string]string
// @Router       /maintenance/request [post]
func (h *MaintenanceHandler) Submit(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req maintenanceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	created, err := h.service.Submit(c.Request().Context(), ports.SubmitMaintenanceInput{
		TenantID: id.UserID,
		LeaseID:  req.LeaseID,
		Issues:   req.Issues,
		Details:  req.Details,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// ListMine returns the caller's requests, newest first.
//
// @Summary      List own maintenance requests
// @Tags         maintenance
// @Produce      json
// @Success      200  {array}  domain.MaintenanceRequest
// @Router       /maintenance/requests [get]
func (h *MaintenanceHandler) ListMine(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	requests, err := h.service.ListForTenant(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(requests))
}

// AdminList is the maintenance queue, optionally filtered by status.
//
// @Summary      List maintenance requests
// @Tags         admin
// @Produce      json
// @Param        status  query  string  false  "pending, in_progress or completed"
// @Success      200     {array}  domain.MaintenanceRequest
// @Router       /admin/maintenance [get]
func (h *MaintenanceHandler) AdminList(c echo.Context) error {
	requests, err := h.service.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(requests))
}

// SetStatus moves a request to any maintenance status.
//
// @Summary      Set maintenance status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      int            true  "Request ID"
// @Param        body  body      statusRequest  true  "New status"
// @Success      200   {object}  domain.MaintenanceRequest
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/maintenance/{id}/status [patch]
func (h *MaintenanceHandler) SetStatus(c echo.Context) error {
	who, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req statusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.service.SetStatus(c.Request().Context(), id, req.Status, actorOf(who))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}
