package errs

import (
	"errors"
	"net/http"
	"strings"
)

func statusCode(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// NewBadRequestError creates a 400. code defaults to "BAD_REQUEST" when nil.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	formattedCode := statusCode(http.StatusBadRequest)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewNotFoundError creates a 404. code defaults to "NOT_FOUND" when nil.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := statusCode(http.StatusNotFound)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewConflictError creates a 409.
func NewConflictError(message string, override bool, code *string) *HTTPError {
	formattedCode := statusCode(http.StatusConflict)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusConflict,
		Override: override,
	}
}

// NewServiceUnavailableError creates a 503 with a retry hint.
func NewServiceUnavailableError(message string) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusServiceUnavailable),
		Message:  message,
		Status:   http.StatusServiceUnavailable,
		Override: true,
		Action: &Action{
			Type:    ActionTypeRetry,
			Message: "the database is busy, retry the request",
		},
	}
}

// NewInternalServerError creates a generic 500. The real cause is logged,
// never sent.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusInternalServerError),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// ValidationError converts a plain validation error into a 400.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil, nil)
}

// FromDataError maps a DataError to its HTTP shape:
//
//	not_found              -> 404
//	constraint_violation   -> 400
//	partial_update_failure -> 409
//	pool_timeout           -> 503
//	data_access_error      -> 500
//
// Messages of 4xx kinds are built from the error itself and marked safe to
// show. It returns nil when err holds no DataError.
func FromDataError(err error) *HTTPError {
	var de *DataError
	if !errors.As(err, &de) {
		return nil
	}

	code := dataErrorCode(de)

	switch de.Kind {
	case KindNotFound:
		return NewNotFoundError(de.Message, true, &code)
	case KindConstraintViolation:
		return NewBadRequestError(de.Message, true, &code, nil, nil)
	case KindPartialUpdateFailure:
		return NewConflictError(de.Message, true, &code)
	case KindPoolTimeout:
		return NewServiceUnavailableError(de.Message)
	default:
		return NewInternalServerError()
	}
}

// dataErrorCode builds codes like QUESTION_NOT_FOUND, or NOT_FOUND when the
// table is unknown.
func dataErrorCode(de *DataError) string {
	kind := strings.ToUpper(string(de.Kind))
	if de.Table == "" {
		return kind
	}
	return strings.ToUpper(singular(de.Table)) + "_" + kind
}
