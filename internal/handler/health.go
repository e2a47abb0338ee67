package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/rentaldesk/internal/middleware"
	"github.com/deppfellow/rentaldesk/internal/server"
)

// Health statuses. A failing database makes the service unhealthy; a failing
// Redis only degrades it, since the dashboard and console keep working.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

const defaultCheckTimeout = 5 * time.Second

// pinger is one dependency check.
type pinger func(ctx context.Context) error

type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type checkResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type healthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]checkResult `json:"checks"`
}

// CheckHealth pings the configured dependencies. It answers 503 only when
// the database is down.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().Str("operation", "health_check").Logger()
	observability := h.server.Config.Observability

	response := healthResponse{
		Status:      statusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      map[string]checkResult{},
	}

	if observability.HealthCheckEnabled("database") && h.server.DB != nil {
		result := h.runCheck(c.Request().Context(), "database", h.server.DB.Pool.Ping)
		response.Checks["database"] = result
		if result.Status != statusHealthy {
			response.Status = statusUnhealthy
		}
	}

	if observability.HealthCheckEnabled("redis") && h.server.Redis != nil {
		result := h.runCheck(c.Request().Context(), "redis", func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
		response.Checks["redis"] = result
		if result.Status != statusHealthy && response.Status == statusHealthy {
			response.Status = statusDegraded
		}
	}

	logger.Debug().
		Str("status", response.Status).
		Dur("total_duration", time.Since(start)).
		Msg("health check completed")

	if response.Status == statusUnhealthy {
		return c.JSON(http.StatusServiceUnavailable, response)
	}
	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) runCheck(ctx context.Context, name string, ping pinger) checkResult {
	timeout := h.server.Config.Observability.HealthChecks.Timeout
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	elapsed := time.Since(start)

	if err == nil {
		return checkResult{Status: statusHealthy, ResponseTime: elapsed.String()}
	}

	h.server.Logger.Error().
		Err(err).
		Str("check", name).
		Dur("response_time", elapsed).
		Msg("health check failed")

	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", map[string]any{
			"check_type":       name,
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})
	}

	return checkResult{Status: statusUnhealthy, ResponseTime: elapsed.String(), Error: err.Error()}
}
