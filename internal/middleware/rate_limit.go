package middleware

import (
	"github.com/deppfellow/quizbank/internal/server"
)

// RateLimitMiddleware reports rejected requests. Enforcement is Echo's
// rate limiter, configured in the router.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// RecordRateLimitHit logs the rejection and records a RateLimitHit custom
// event when New Relic is on.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint, identifier string) {
	r.server.Logger.Warn().
		Str("endpoint", endpoint).
		Str("identifier", identifier).
		Msg("rate limit exceeded")

	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]any{
			"endpoint": endpoint,
		})
	}
}
