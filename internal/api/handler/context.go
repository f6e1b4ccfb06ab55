package handler

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/parkview/rental-system/internal/api/middleware"
	"github.com/parkview/rental-system/internal/core/domain"
	"github.com/parkview/rental-system/internal/pkg/session"
)

// ctxIdentity returns the identity injected by the Session middleware. A missing
// identity means the route was registered without the middleware.
func ctxIdentity(c echo.Context) (*session.Identity, error) {
	id, _ := c.Get(middleware.IdentityKey).(*session.Identity)
	if id == nil || id.UserID == 0 {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, string(session.FailureMissingToken))
	}
	return id, nil
}

func actorOf(id *session.Identity) domain.Actor {
	return domain.Actor{UserID: id.UserID, Role: id.Role}
}

// paramID parses a positive numeric path parameter.
func paramID(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, domain.Invalidf("invalid %s", name)
	}
	return uint(v), nil
}

// bindAndValidate binds the request body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Invalidf("invalid payload")
	}
	if c.Echo().Validator != nil {
		if err := c.Validate(req); err != nil {
			return err
		}
	}
	return nil
}

// parseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, domain.Invalidf("%s must be a date (YYYY-MM-DD)", field)
	}
	return t.UTC(), nil
}

func queryFloat(c echo.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, domain.Invalidf("%s must be a finite number", name)
	}
	return &v, nil
}

func queryInt(c echo.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.Invalidf("%s must be an integer", name)
	}
	return &v, nil
}
