// Package router builds the Echo instance: global middleware in order, the
// error handler and every route group.
package router

import (
	"net/http"
	"time"

	"github.com/deppfellow/quizbank/internal/handler"
	"github.com/deppfellow/quizbank/internal/middleware"
	"github.com/deppfellow/quizbank/internal/server"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const defaultRateLimit = 20

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		rateLimiter(s, middlewares.RateLimit),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api")
	registerQuestionRoutes(api, h)
	registerStatisticsRoutes(api, h)
	registerUserRoutes(api, h)

	return router
}

func rateLimiter(s *server.Server, recorder *middleware.RateLimitMiddleware) echo.MiddlewareFunc {
	limit := s.Config.Server.RateLimitPerSecond
	if limit <= 0 {
		limit = defaultRateLimit
	}

	return echoMiddleware.RateLimiterWithConfig(echoMiddleware.RateLimiterConfig{
		Store: echoMiddleware.NewRateLimiterMemoryStoreWithConfig(
			echoMiddleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(limit),
				Burst:     int(limit) * 2,
				ExpiresIn: time.Minute,
			},
		),
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			recorder.RecordRateLimitHit(c.Path(), identifier)
			return echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded")
		},
	})
}
