package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/quizbank/internal/middleware"
	"github.com/deppfellow/quizbank/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const defaultCheckTimeout = 5 * time.Second

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

// CheckHealth probes the database and, when configured, Redis. Any failed
// probe turns the response into a 503.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := healthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]checkResult),
	}

	probes := map[string]func(context.Context) error{}
	if h.enabled("database") {
		probes["database"] = h.server.DB.Ping
	}
	if h.server.Redis != nil && h.enabled("redis") {
		probes["redis"] = func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		}
	}

	for name, probe := range probes {
		result := h.probe(c.Request().Context(), &logger, name, probe)
		if result.Status != "healthy" {
			response.Status = "unhealthy"
		}
		response.Checks[name] = result
	}

	if response.Status != "healthy" {
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	return c.JSON(http.StatusOK, response)
}

// enabled treats a missing observability block as "check everything".
func (h *HealthHandler) enabled(name string) bool {
	obs := h.server.Config.Observability
	return obs == nil || obs.HealthChecks.Has(name)
}

func (h *HealthHandler) probe(ctx context.Context, logger *zerolog.Logger, name string, probe func(context.Context) error) checkResult {
	timeout := defaultCheckTimeout
	if obs := h.server.Config.Observability; obs != nil && obs.HealthChecks.Timeout > 0 {
		timeout = obs.HealthChecks.Timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	probeStart := time.Now()
	err := probe(ctx)
	elapsed := time.Since(probeStart)

	if err == nil {
		return checkResult{Status: "healthy", ResponseTime: elapsed.String()}
	}

	logger.Error().
		Err(err).
		Str("check", name).
		Dur("response_time", elapsed).
		Msg("health check probe failed")

	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", map[string]any{
			"check_type":       name,
			"operation":        "health_check",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})
	}

	result := checkResult{Status: "unhealthy", ResponseTime: elapsed.String()}
	if h.server.Config.IsLocal() {
		result.Error = err.Error()
	}
	return result
}
