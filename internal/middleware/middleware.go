// Package middleware holds the Echo middleware of the quizbank API: request
// ids, the request-scoped logger, New Relic tracing, rate limit telemetry
// and the global error handler that turns data errors into JSON responses.
package middleware
