package sqlerr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/quizbank/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var uniqueKeyPattern = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// ErrCode returns the Code of the first *Error or *pgconn.PgError in err's
// chain, or Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return MapCode(pgErr.Code)
	}
	return Other
}

// HandleError classifies a failure of operation op on table into a
// *errs.DataError. It returns nil for a nil err.
//
//   - an existing DataError passes through unchanged
//   - pgx.ErrNoRows becomes NotFound for id
//   - constraint-like SQLSTATEs become ConstraintViolation
//   - 53300 (too many clients) becomes PoolTimeout
//   - anything else, context errors included, becomes DataAccessError
func HandleError(table, op string, id int64, err error) error {
	if err == nil {
		return nil
	}

	var de *errs.DataError
	if errors.As(err, &de) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errs.NewNotFound(table, op, id)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		sqlErr := ConvertPgError(pgErr)
		if sqlErr.TableName == "" {
			sqlErr.TableName = table
		}

		switch {
		case sqlErr.Code.IsConstraint():
			return errs.NewConstraintViolation(table, op, id, formatUserFriendlyMessage(sqlErr), sqlErr)
		case sqlErr.Code == TooManyConnections:
			return errs.NewPoolTimeout(op, sqlErr)
		default:
			return errs.NewDataAccess(table, op, id, sqlErr)
		}
	}

	return errs.NewDataAccess(table, op, id, err)
}

// formatUserFriendlyMessage phrases a constraint failure for API clients.
func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		field := "identifier"
		if column := extractColumnForUniqueViolation(sqlErr.ConstraintName); column != "" {
			field = humanizeText(column)
		}
		return fmt.Sprintf("A %s with this %s already exists", entityName, field)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		if fieldName := humanizeText(columnFromCheck(sqlErr.ConstraintName, sqlErr.TableName)); fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	case StringDataRightTruncation:
		return fmt.Sprintf("A %s value is too long", entityName)

	case InvalidTextRepresentation:
		return "A value has an invalid format"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName prefers a "<entity>_id" column, then the singular table name.
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		return humanizeText(strings.TrimSuffix(strings.ToLower(columnName), "_id"))
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText turns "explanation_text" into "Explanation Text".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation reads the column out of
// "unique_<table>_<column>" or "<table>_<column>_key" constraint names.
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	if matches := uniqueKeyPattern.FindStringSubmatch(constraintName); len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// columnFromCheck reads the column out of PostgreSQL's default
// "<table>_<column>_check" constraint names.
func columnFromCheck(constraintName, tableName string) string {
	name := strings.TrimSuffix(constraintName, "_check")
	if name == constraintName || tableName == "" {
		return ""
	}
	return strings.TrimPrefix(name, tableName+"_")
}
