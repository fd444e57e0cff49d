// Package sqlerr translates PostgreSQL driver errors into quizbank's
// DataError taxonomy.
//
// SQLSTATE codes are mapped to a small Code enum first. Constraint-like codes
// become ConstraintViolation with a message built from the table and column
// the server reported; everything else becomes DataAccessError.
package sqlerr

import "github.com/jackc/pgx/v5/pgconn"

// Code is the category of a database error.
type Code string

const (
	Other                     Code = "other"
	NotNullViolation          Code = "not_null_violation"
	ForeignKeyViolation       Code = "foreign_key_violation"
	UniqueViolation           Code = "unique_violation"
	CheckViolation            Code = "check_violation"
	StringDataRightTruncation Code = "string_data_right_truncation"
	InvalidTextRepresentation Code = "invalid_text_representation"
	TooManyConnections        Code = "too_many_connections"
)

// SQLSTATE values handled explicitly.
const (
	sqlstateNotNull        = "23502"
	sqlstateForeignKey     = "23503"
	sqlstateUnique         = "23505"
	sqlstateCheck          = "23514"
	sqlstateTruncation     = "22001"
	sqlstateInvalidText    = "22P02"
	sqlstateTooManyClients = "53300"
)

// MapCode maps a SQLSTATE to a Code.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case sqlstateNotNull:
		return NotNullViolation
	case sqlstateForeignKey:
		return ForeignKeyViolation
	case sqlstateUnique:
		return UniqueViolation
	case sqlstateCheck:
		return CheckViolation
	case sqlstateTruncation:
		return StringDataRightTruncation
	case sqlstateInvalidText:
		return InvalidTextRepresentation
	case sqlstateTooManyClients:
		return TooManyConnections
	default:
		return Other
	}
}

// IsConstraint reports whether the code means the statement's data was
// rejected, as opposed to the statement or transport failing.
func (c Code) IsConstraint() bool {
	switch c {
	case NotNullViolation, ForeignKeyViolation, UniqueViolation, CheckViolation,
		StringDataRightTruncation, InvalidTextRepresentation:
		return true
	}
	return false
}

// Severity mirrors the PostgreSQL severity levels.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// MapSeverity maps the server's (non-localized) severity string.
func MapSeverity(severity string) Severity {
	switch Severity(severity) {
	case SeverityFatal, SeverityPanic, SeverityWarning, SeverityNotice,
		SeverityDebug, SeverityInfo, SeverityLog:
		return Severity(severity)
	default:
		return SeverityError
	}
}

// Error is a normalized view of a *pgconn.PgError.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return string(e.Severity) + ": " + e.Message + " (SQLSTATE " + e.DatabaseCode + ")"
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// ConvertPgError normalizes a server error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}
