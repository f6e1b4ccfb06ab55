package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/parkview/rental-system/internal/core/ports"
)

// AdminHandler serves admin lookups that are not owned by a lifecycle handler.
type AdminHandler struct {
	auth     ports.AuthService
	activity ports.ActivityService
}

func NewAdminHandler(auth ports.AuthService, activity ports.ActivityService) *AdminHandler {
	return &AdminHandler{auth: auth, activity: activity}
}

// Tenants lists tenant accounts for the lease form.
//
// @Summary      List tenants
// @Tags         admin
// @Produce      json
// @Success      200  {array}  domain.User
// @Router       /admin/tenants [get]
func (h *AdminHandler) Tenants(c echo.Context) error {
	users, err := h.auth.ListTenants(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(users))
}

// Activity reads the activity trail, newest first.
//
// @Summary      Activity trail
// @Tags         admin
// @Produce      json
// @Param        entity_type  query  string  false  "lease, payment, application, ..."
// @Param        entity_id    query  int     false  "Entity ID"
// @Param        limit        query  int     false  "Maximum events (default 50)"
// @Success      200          {array}  domain.ActivityEvent
// @Router       /admin/activity [get]
func (h *AdminHandler) Activity(c echo.Context) error {
	filter := ports.ActivityFilter{EntityType: strings.TrimSpace(c.QueryParam("entity_type"))}

	entityID, err := queryInt(c, "entity_id")
	if err != nil {
		return err
	}
	if entityID != nil && *entityID > 0 {
		filter.EntityID = uint(*entityID)
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	if limit != nil {
		filter.Limit = *limit
	}

	events, err := h.activity.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(events))
}
