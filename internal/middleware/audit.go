package middleware

import (
	"net/http"

	"patientrecords/internal/common"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// AuditMiddleware writes one audit line per mutating request.
type AuditMiddleware struct {
	logger zerolog.Logger
}

func NewAuditMiddleware(logger zerolog.Logger) *AuditMiddleware {
	return &AuditMiddleware{logger: logger.With().Str("component", "audit").Logger()}
}

func (m *AuditMiddleware) AuditRequest() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			method := c.Request().Method
			if !isMutating(method) {
				return err
			}

			ctx := c.Request().Context()
			hubID, ok := common.GetHubIDFromContext(ctx)
			if !ok {
				return err
			}

			status := c.Response().Status
			if he, isHTTP := err.(*echo.HTTPError); isHTTP {
				status = he.Code
			} else if err != nil {
				status = http.StatusInternalServerError
			}

			evt := m.logger.Info()
			if err != nil {
				evt = m.logger.Warn().Err(err)
			}
			if userID, ok := common.GetUserIDFromContext(ctx); ok {
				evt = evt.Str("user_id", userID.String())
			}
			if id := c.Param("id"); id != "" {
				evt = evt.Str("record_id", id)
			}

			evt.
				Str("hub_id", hubID.String()).
				Str("action", method+" "+c.Path()).
				Int("status", status).
				Str("ip", c.RealIP()).
				Msg("audit")

			return err
		}
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
