package middleware

import (
	"net/http"

	"github.com/deppfellow/quizbank/internal/errs"
	"github.com/deppfellow/quizbank/internal/server"
	"github.com/deppfellow/quizbank/internal/sqlerr"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GlobalMiddlewares groups the middleware installed on every route and the
// global error handler.
//
// It keeps a pointer to the application container so the middleware can
// read the CORS origins and the environment, and reach the base logger.
type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// CORS returns echo's CORS middleware restricted to
// server.cors_allowed_origins.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// RequestLogger writes one "API" line per request through the request
// logger, at error for 5xx, warn for 4xx and info otherwise.
//
// When the handler returned an error the response has not been written yet,
// so the status is derived from the error the same way GlobalErrorHandler
// will derive it. Data errors add their kind as error_kind.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// The error handler has not written the response yet.
			// See https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			if v.Error != nil {
				statusCode = toHTTPError(v.Error).Status
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if kind := errs.KindOf(v.Error); kind != "" {
				e = e.Str("error_kind", string(kind))
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover turns a handler panic into a 500 handled by GlobalErrorHandler.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler writes every handler error as an errs.HTTPError.
//
// This is the one place a failed request is logged with its full error and
// stack: at warn for client errors, at error for server errors. Outside the
// local environment, messages not marked Override are replaced by the status
// text, so statement text and driver messages never reach the client.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	httpErr := toHTTPError(err)

	logger := GetLogger(c)
	event := logger.Error()
	if httpErr.Status < http.StatusInternalServerError {
		event = logger.Warn()
	}
	event.Stack().
		Err(err).
		Int("status", httpErr.Status).
		Str("error_code", httpErr.Code).
		Msg(httpErr.Message)

	if !global.server.Config.IsLocal() && !httpErr.Override {
		httpErr = httpErr.WithMessage(http.StatusText(httpErr.Status))
	}

	if !c.Response().Committed {
		if err := c.JSON(httpErr.Status, httpErr); err != nil {
			logger.Error().Err(err).Msg("failed to write error response")
		}
	}
}

// toHTTPError classifies err:
//
//   - *errs.HTTPError is used as is
//   - *errs.DataError goes through errs.FromDataError
//   - *echo.HTTPError keeps its status; an unknown route becomes a 404
//   - anything else is passed through sqlerr.HandleError first, so stray
//     driver errors still get a data error kind
func toHTTPError(err error) *errs.HTTPError {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	if dataErr := errs.FromDataError(err); dataErr != nil {
		return dataErr
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if echoErr.Code == http.StatusNotFound {
			return errs.NewNotFoundError("Route not found", true, nil)
		}

		message := http.StatusText(echoErr.Code)
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		}
		return &errs.HTTPError{
			Code:     errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
			Message:  message,
			Status:   echoErr.Code,
			Override: echoErr.Code < http.StatusInternalServerError,
		}
	}

	if dataErr := errs.FromDataError(sqlerr.HandleError("", "", 0, err)); dataErr != nil {
		return dataErr
	}
	return errs.NewInternalServerError()
}
