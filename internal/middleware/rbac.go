package middleware

import (
	"net/http"

	"patientrecords/internal/common"

	"github.com/labstack/echo/v4"
)

// RequirePermission rejects sessions that were not granted permission.
func RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if _, ok := common.GetHubIDFromContext(ctx); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Hub not found")
			}
			if !common.HasPermission(ctx, permission) {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}

			return next(c)
		}
	}
}
