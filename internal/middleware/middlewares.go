package middleware

import (
	"github.com/deppfellow/quizbank/internal/server"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Middlewares groups every middleware component so the router builds them
// once. Each component holds the *server.Server it reads config, logger and
// New Relic state from.
type Middlewares struct {
	// Global holds the middleware installed on every route (CORS, request
	// logging, recovery, secure headers) and the global error handler.
	Global *GlobalMiddlewares

	// ContextEnhancer attaches the request-scoped logger carrying the
	// request id, method, path, ip and trace ids.
	ContextEnhancer *ContextEnhancer

	// Tracing starts New Relic transactions and tags them with request and
	// data error attributes.
	Tracing *TracingMiddleware

	// RateLimit reports requests rejected by the router's limiter.
	RateLimit *RateLimitMiddleware
}

// NewMiddlewares wires the middleware. Tracing degrades to a no-op when New
// Relic is not configured.
func NewMiddlewares(s *server.Server) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
