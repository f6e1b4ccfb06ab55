package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parkview/rental-system/internal/pkg/session"
)

// RBAC enforces role-based access control on top of Session. A role outside
// allowedRoles is an authentication failure, not a permission one: each scope
// only ever admits its own role.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(RoleKey).(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": string(session.FailureWrongRole)})
			}
			return next(c)
		}
	}
}
