package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// The platform serves three consoles, each with its own role.
const (
	RolePatient = "patient"
	RoleVendor  = "vendor"
	RoleAdmin   = "admin"
)

// RequireRole admits callers holding any of the listed roles. Admins pass
// every guard.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles)+1)
	for _, role := range roles {
		allowed[role] = true
	}
	allowed[RoleAdmin] = true

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, held := range RolesFromContext(c.Request().Context()) {
				if allowed[held] {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("requires one of roles: %s", strings.Join(roles, ", ")))
		}
	}
}
