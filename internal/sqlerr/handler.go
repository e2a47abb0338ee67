package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/deppfellow/rentaldesk/internal/errs"
)

// ErrCode returns the category of err, or Other when it was never classified.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return Other
}

// ConvertPgError classifies a raw server error.
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

// Classify returns the classified form of err when it carries a server
// error, and nil for client-side failures (connection refused, timeouts).
func Classify(err error) *Error {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return ConvertPgError(pgerr)
	}
	return nil
}

// Describe returns an application code and a readable sentence for a
// classified error, e.g. CLIENT_ALREADY_EXISTS and "A Client with this Email
// already exists". Errors outside the constraint categories get a generic
// sentence.
func Describe(sqlErr *Error) (code, message string) {
	code = generateErrorCode(sqlErr.TableName, sqlErr.Code)
	message = formatUserFriendlyMessage(sqlErr)

	if sqlErr.Code == UniqueViolation {
		if columnName := extractColumnForUniqueViolation(sqlErr.ConstraintName); columnName != "" {
			message = strings.ReplaceAll(message, "identifier", humanizeText(columnName))
		}
	}
	return code, message
}

// generateErrorCode builds "<ENTITY>_<ACTION>", e.g. CLIENT_ALREADY_EXISTS.
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(singular(tableName))

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		return fmt.Sprintf("A %s with this identifier already exists", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName prefers a "<entity>_id" column, then the table name.
func getEntityName(tableName, columnName string) string {
	lower := strings.ToLower(columnName)
	if strings.HasSuffix(lower, "_id") {
		return humanizeText(strings.TrimSuffix(lower, "_id"))
	}

	if tableName != "" {
		return humanizeText(singular(tableName))
	}

	return "record"
}

// singular strips the plural ending of the rental tables:
// vehicle_categories, clients, reservations.
func singular(name string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(name), "ies") && len(name) > 3:
		return name[:len(name)-3] + "y"
	case strings.HasSuffix(strings.ToLower(name), "s") && len(name) > 1:
		return name[:len(name)-1]
	}
	return name
}

func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

var uniqueKeySuffix = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// extractColumnForUniqueViolation reads the column out of a constraint
// name: "unique_clients_email" or PostgreSQL's default "clients_email_key".
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

	if matches := uniqueKeySuffix.FindStringSubmatch(constraintName); len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// HandleError turns a repository error into an *errs.HTTPError.
//
// Errors that already are HTTP errors pass through. A missing row is a 404,
// a statement cancelled by the server (statement_timeout) a 503, and
// anything else a generic 500 that leaks nothing.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	if sqlErr := Classify(err); sqlErr != nil && sqlErr.Code == QueryCanceled {
		return errs.NewServiceUnavailableError("The database did not answer in time")
	}

	return errs.NewInternalServerError()
}
