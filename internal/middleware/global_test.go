package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/quizbank/internal/config"
	"github.com/deppfellow/quizbank/internal/errs"
	"github.com/deppfellow/quizbank/internal/server"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTTPError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"http error kept", errs.NewBadRequestError("bad", true, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"not found", errs.NewNotFound("questions", "get", 1), http.StatusNotFound, "QUESTION_NOT_FOUND"},
		{"constraint", errs.NewConstraintViolation("questions", "validate", 0, "text required", nil), http.StatusBadRequest, "QUESTION_CONSTRAINT_VIOLATION"},
		{"partial update", errs.NewPartialUpdateFailure("questions", "update", 1, nil), http.StatusConflict, "QUESTION_PARTIAL_UPDATE_FAILURE"},
		{"pool timeout", errs.NewPoolTimeout("begin", nil), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"unknown route", echo.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"method not allowed", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"rate limited", echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"stray pg error", &pgconn.PgError{Code: "23505", TableName: "users", ConstraintName: "users_name_key"}, http.StatusBadRequest, "CONSTRAINT_VIOLATION"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toHTTPError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.code, got.Code)
		})
	}
}

func newTestServer(env string) *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{Primary: config.Primary{Env: env}},
		Logger: &logger,
	}
}

func serveError(t *testing.T, env string, err error) (int, errs.HTTPError) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/questions/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewGlobalMiddlewares(newTestServer(env)).GlobalErrorHandler(err, c)

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestGlobalErrorHandler_NotFoundMessageIsShown(t *testing.T) {
	status, body := serveError(t, "production", errs.NewNotFound("questions", "get", 9))

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "question 9 does not exist", body.Message)
}

func TestGlobalErrorHandler_RedactsOutsideLocal(t *testing.T) {
	err := echo.NewHTTPError(http.StatusInternalServerError, "pq: relation \"questionz\" does not exist")

	status, body := serveError(t, "production", err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal Server Error", body.Message)

	_, body = serveError(t, "local", err)
	assert.Contains(t, body.Message, "questionz")
}

func TestGlobalErrorHandler_DriverDetailNeverSent(t *testing.T) {
	err := errs.NewDataAccess("questions", "find_page", 0, errors.New("syntax error at or near \"SELEC\""))

	for _, env := range []string{"local", "production"} {
		status, body := serveError(t, env, err)
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.NotContains(t, body.Message, "SELEC")
	}
}

func TestGlobalErrorHandler_PoolTimeoutCarriesRetry(t *testing.T) {
	status, body := serveError(t, "production", errs.NewPoolTimeout("begin", nil))

	assert.Equal(t, http.StatusServiceUnavailable, status)
	require.NotNil(t, body.Action)
	assert.Equal(t, errs.ActionTypeRetry, body.Action.Type)
}
