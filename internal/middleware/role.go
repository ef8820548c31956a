package middleware

import (
	"github.com/labstack/echo/v4"

	apperrors "wateradmin/internal/errors"
	"wateradmin/internal/model"
)

// RequireRole returns a middleware that admits callers whose role is at least
// min in the USER < MANAGER < ADMIN order. It assumes Authenticate ran first.
func RequireRole(min string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ContextKeyRole).(string)
			if !ok || role == "" {
				return apperrors.ErrUnauthenticated
			}
			if !model.RoleAtLeast(role, min) {
				return apperrors.ErrForbidden
			}
			return next(c)
		}
	}
}
