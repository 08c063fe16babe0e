package handlers

import (
	"context"
	"net/http"
	"time"

	"patientrecords/internal/module"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const readinessTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles liveness and readiness probes
type HealthHandlers struct {
	db      Pinger
	redis   redis.UniversalClient
	started time.Time
}

// NewHealthHandlers creates a new health handlers instance. redis may be nil.
func NewHealthHandlers(db Pinger, rdb redis.UniversalClient) *HealthHandlers {
	return &HealthHandlers{
		db:      db,
		redis:   rdb,
		started: time.Now(),
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
}

// HealthCheck is the liveness probe.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, &HealthStatus{
		Status:    "alive",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Version:   module.Version,
	})
}

// ReadinessCheck reports whether postgres and redis answer.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	health := &HealthStatus{
		Status:    "ready",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Version:   module.Version,
	}

	if err := h.db.Ping(ctx); err != nil {
		health.Services["database"] = "unhealthy"
		health.Status = "not_ready"
	} else {
		health.Services["database"] = "healthy"
	}

	// Settings fall back to defaults without redis, so it only degrades.
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			health.Services["redis"] = "unhealthy"
			if health.Status == "ready" {
				health.Status = "degraded"
			}
		} else {
			health.Services["redis"] = "healthy"
		}
	}

	statusCode := http.StatusOK
	if health.Status == "not_ready" {
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, health)
}
