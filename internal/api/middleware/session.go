package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parkview/rental-system/internal/pkg/metrics"
	"github.com/parkview/rental-system/internal/pkg/session"
)

// Context keys set by Session.
const (
	IdentityKey = "identity"
	RoleKey     = "role"
)

// Session verifies the scope cookie issued by m and injects the caller's
// identity into the context. Rejections answer 401 with the failure reason.
func Session(m *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var token string
			if cookie, err := c.Cookie(m.CookieName()); err == nil {
				token = cookie.Value
			}

			res := m.Verify(token)
			if !res.OK() {
				metrics.SessionFailuresTotal.WithLabelValues(string(m.Scope()), string(res.Failure)).Inc()
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": string(res.Failure)})
			}

			c.Set(IdentityKey, res.Identity)
			c.Set(RoleKey, res.Identity.Role)
			return next(c)
		}
	}
}
