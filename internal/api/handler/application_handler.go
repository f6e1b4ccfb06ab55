package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parkview/rental-system/internal/core/ports"
)

// ApplicationHandler handles rental application intake and review.
type ApplicationHandler struct {
	service ports.ApplicationService
}

func NewApplicationHandler(service ports.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

type applyRequest struct {
	FirstName      string  `json:"first_name" validate:"required"`
	LastName       string  `json:"last_name" validate:"required"`
	Phone          string  `json:"phone" validate:"required"`
	CurrentAddress string  `json:"current_address"`
	Employer       string  `json:"employer"`
	MonthlyIncome  float64 `json:"monthly_income" validate:"gte=0"`
	MoveInDate     string  `json:"move_in_date"`
	Occupants      int     `json:"occupants" validate:"gte=0"`
	Notes          string  `json:"notes"`
	ApartmentID    *uint   `json:"apartment_id"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Apply submits an application on behalf of the signed-in tenant.
//
// @Summary      Submit rental application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        body  body      applyRequest  true  "Application"
// @Success      201   {object}  domain.Application
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /apply [post]
func (h *ApplicationHandler) Apply(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req applyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	moveIn, err := parseDate("move_in_date", req.MoveInDate)
	if err != nil {
		return err
	}

	input := ports.SubmitApplicationInput{
		Email:          id.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		CurrentAddress: req.CurrentAddress,
		Employer:       req.Employer,
		MonthlyIncome:  req.MonthlyIncome,
		Occupants:      req.Occupants,
		Notes:          req.Notes,
		ApartmentID:    req.ApartmentID,
		Actor:          actorOf(id),
	}
	if !moveIn.IsZero() {
		input.MoveInDate = &moveIn
	}

	app, err := h.service.Submit(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, app)
}

// ListMine returns the caller's applications.
//
// @Summary      List own applications
// @Tags         applications
// @Produce      json
// @Success      200  {array}  domain.Application
// @Router       /applications [get]
func (h *ApplicationHandler) ListMine(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	apps, err := h.service.ListForUser(c.Request().Context(), id.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apps)
}

// AdminList is the review queue, optionally filtered by status.
//
// @Summary      List applicants
// @Tags         admin
// @Produce      json
// @Param        status  query  string  false  "submitted, under_review or approved"
// @Success      200     {array}  domain.Application
// @Router       /admin/applicants [get]
func (h *ApplicationHandler) AdminList(c echo.Context) error {
	apps, err := h.service.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apps)
}

// SetStatus moves an application to any canonical status.
//
// @Summary      Set application status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      int            true  "Application ID"
// @Param        body  body      statusRequest  true  "New status"
// @Success      200   {object}  domain.Application
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/applicants/{id}/status [patch]
func (h *ApplicationHandler) SetStatus(c echo.Context) error {
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

	app, err := h.service.SetStatus(c.Request().Context(), id, req.Status, actorOf(who))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, app)
}
