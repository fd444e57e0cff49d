package handler

import (
	"time"

	"github.com/deppfellow/quizbank/internal/middleware"
	"github.com/deppfellow/quizbank/internal/server"
	"github.com/deppfellow/quizbank/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler is the base handler type holding shared application
// dependencies.
//
// It is embedded by the concrete handlers (QuestionHandler,
// StatisticsHandler, UserHandler, HealthHandler) so they can reach config,
// logger, database and Redis through *server.Server.
type Handler struct {
	server *server.Server
}

// NewHandler returns the base handler by value; copies share the same
// *server.Server.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// Request is the constraint for request structs: a pointer to Req that can
// validate itself. A fresh Req is allocated for every request.
type Request[Req any] interface {
	*Req
	validation.Validatable
}

// ResponseHandler writes a successful result.
//
// Handle renders result onto the response. GetOperation names the kind of
// response for the request logger's "operation" field.
type ResponseHandler interface {
	Handle(c echo.Context, result any) error
	GetOperation() string
}

// JSONResponseHandler writes result as JSON with a fixed status.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result any) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

// NoContentResponseHandler writes only the status and ignores result.
type NoContentResponseHandler struct {
	status int
}

func (h NoContentResponseHandler) Handle(c echo.Context, _ any) error {
	return c.NoContent(h.status)
}

func (h NoContentResponseHandler) GetOperation() string {
	return "handler_no_content"
}

// handleRequest binds and validates req, runs handler and writes the result.
// Timings go to the request logger and, when traced, to the New Relic
// transaction.
func handleRequest(
	c echo.Context,
	req validation.Validatable,
	handler func(c echo.Context) (any, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", route).
		Logger()

	validationStart := time.Now()
	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}
		return err
	}
	validationDuration := time.Since(validationStart)

	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	handlerStart := time.Now()
	result, err := handler(c)
	handlerDuration := time.Since(handlerStart)

	if txn != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		txn.AddAttribute("handler.status", status)
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", time.Since(start).Milliseconds())
	}

	if err != nil {
		// Logged once by the global error handler.
		logger.Debug().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Msg("handler returned error")
		return err
	}

	logger.Debug().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed")

	return responseHandler.Handle(c, result)
}

// Handle adapts a JSON-returning handler method to echo.HandlerFunc.
//
// Every call allocates a fresh Req, binds path, query and body into it and
// validates it before handler runs. A bind or validation failure is returned
// as a 400 errs.HTTPError and handler is not called. Errors from handler are
// returned unchanged for GlobalErrorHandler to classify and log.
//
// Typical use in a router:
//
//	questions.GET("/:id", handler.Handle(h.Question.Get, http.StatusOK))
func Handle[Req any, PReq Request[Req], Res any](
	handler func(c echo.Context, req PReq) (Res, error),
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := PReq(new(Req))
		return handleRequest(c, req, func(c echo.Context) (any, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleNoContent is Handle for operations with no response body.
func HandleNoContent[Req any, PReq Request[Req]](
	handler func(c echo.Context, req PReq) error,
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := PReq(new(Req))
		return handleRequest(c, req, func(c echo.Context) (any, error) {
			return nil, handler(c, req)
		}, NoContentResponseHandler{status: status})
	}
}
