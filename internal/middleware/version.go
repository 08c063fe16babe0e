package middleware

import (
	"github.com/labstack/echo/v4"
)

// ModuleVersion tags every response with the module id and version.
func ModuleVersion(moduleID, version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-Module-ID", moduleID)
			c.Response().Header().Set("X-Module-Version", version)
			return next(c)
		}
	}
}
