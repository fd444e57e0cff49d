package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDataError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		override bool
	}{
		{"not found", NewNotFound("questions", "get", 1), http.StatusNotFound, "QUESTION_NOT_FOUND", true},
		{"constraint", NewConstraintViolation("choices", "create", 0, "bad", nil), http.StatusBadRequest, "CHOICE_CONSTRAINT_VIOLATION", true},
		{"partial update", NewPartialUpdateFailure("questions", "update", 2, nil), http.StatusConflict, "QUESTION_PARTIAL_UPDATE_FAILURE", true},
		{"pool timeout", NewPoolTimeout("begin", nil), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", true},
		{"data access", NewDataAccess("answers", "create", 0, errors.New("io")), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", false},
		{"wrapped", fmt.Errorf("ctx: %w", NewNotFound("users", "get", 4)), http.StatusNotFound, "USER_NOT_FOUND", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := FromDataError(tt.err)
			require.NotNil(t, httpErr)
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.code, httpErr.Code)
			assert.Equal(t, tt.override, httpErr.Override)
		})
	}
}

func TestFromDataError_PoolTimeoutAsksForRetry(t *testing.T) {
	httpErr := FromDataError(NewPoolTimeout("acquire", nil))
	require.NotNil(t, httpErr)
	require.NotNil(t, httpErr.Action)
	assert.Equal(t, ActionTypeRetry, httpErr.Action.Type)
}

func TestFromDataError_DataAccessHidesCause(t *testing.T) {
	httpErr := FromDataError(NewDataAccess("questions", "find_page", 0, errors.New("syntax error at or near SELEC")))
	require.NotNil(t, httpErr)
	assert.NotContains(t, httpErr.Message, "SELEC")
}

func TestFromDataError_NotADataError(t *testing.T) {
	assert.Nil(t, FromDataError(errors.New("plain")))
	assert.Nil(t, FromDataError(nil))
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
}

func TestHTTPError_WithMessage(t *testing.T) {
	orig := NewNotFoundError("question 1 does not exist", true, nil)
	redacted := orig.WithMessage("Not Found")

	assert.Equal(t, "Not Found", redacted.Message)
	assert.Equal(t, orig.Status, redacted.Status)
	assert.Equal(t, "question 1 does not exist", orig.Message)
}
