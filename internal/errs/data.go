package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a data-access failure.
type Kind string

const (
	// KindNotFound means the addressed aggregate root does not exist.
	KindNotFound Kind = "not_found"

	// KindConstraintViolation covers unknown or missing columns, shape
	// mismatches and unique/foreign-key/not-null/check rejections by the store.
	KindConstraintViolation Kind = "constraint_violation"

	// KindPartialUpdateFailure is only produced by the two-phase update
	// strategy: scalars were committed but the new dependents were not.
	KindPartialUpdateFailure Kind = "partial_update_failure"

	// KindDataAccess is any transport or query failure.
	KindDataAccess Kind = "data_access_error"

	// KindPoolTimeout means no pooled connection became free in time.
	KindPoolTimeout Kind = "pool_timeout"
)

// Sentinels for errors.Is. A *DataError matches the sentinel of its Kind.
var (
	ErrNotFound             = &DataError{Kind: KindNotFound}
	ErrConstraintViolation  = &DataError{Kind: KindConstraintViolation}
	ErrPartialUpdateFailure = &DataError{Kind: KindPartialUpdateFailure}
	ErrDataAccess           = &DataError{Kind: KindDataAccess}
	ErrPoolTimeout          = &DataError{Kind: KindPoolTimeout}
)

// DataError is the single error type the data-access layer returns.
//
// Table, Op and ID describe where the failure happened. ID is zero when the
// operation was not addressed by id (inserts, listings, aggregates).
type DataError struct {
	Kind    Kind
	Table   string
	Op      string
	ID      int64
	Message string
	Err     error
}

func (e *DataError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Op != "" || e.Table != "" {
		fmt.Fprintf(&b, " [%s %s", e.Op, e.Table)
		if e.ID != 0 {
			fmt.Fprintf(&b, " id=%d", e.ID)
		}
		b.WriteString("]")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// Is matches any *DataError of the same Kind, so callers can write
// errors.Is(err, errs.ErrNotFound).
func (e *DataError) Is(target error) bool {
	t, ok := target.(*DataError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newDataError(kind Kind, table, op string, id int64, message string, err error) *DataError {
	return &DataError{Kind: kind, Table: table, Op: op, ID: id, Message: message, Err: err}
}

func NewNotFound(table, op string, id int64) *DataError {
	return newDataError(KindNotFound, table, op, id, fmt.Sprintf("%s %d does not exist", singular(table), id), nil)
}

func NewConstraintViolation(table, op string, id int64, message string, err error) *DataError {
	return newDataError(KindConstraintViolation, table, op, id, message, err)
}

func NewPartialUpdateFailure(table, op string, id int64, err error) *DataError {
	return newDataError(KindPartialUpdateFailure, table, op, id,
		"scalar fields committed but dependents could not be attached; question is shapeless", err)
}

func NewDataAccess(table, op string, id int64, err error) *DataError {
	return newDataError(KindDataAccess, table, op, id, "", err)
}

func NewPoolTimeout(op string, err error) *DataError {
	return newDataError(KindPoolTimeout, "", op, 0, "timed out waiting for a pooled connection", err)
}

// KindOf returns the Kind of the first DataError in err's chain, or "" when
// there is none.
func KindOf(err error) Kind {
	var de *DataError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func singular(table string) string {
	if table == "" {
		return "record"
	}
	return strings.TrimSuffix(table, "s")
}
