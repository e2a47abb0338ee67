package sqlerr

import "fmt"

// Code is the category of a database error.
type Code string

const (
	Other                 Code = "other"
	NotNullViolation      Code = "not_null_violation"
	ForeignKeyViolation   Code = "foreign_key_violation"
	UniqueViolation       Code = "unique_violation"
	CheckViolation        Code = "check_violation"
	SyntaxError           Code = "syntax_error"
	UndefinedTable        Code = "undefined_table"
	UndefinedColumn       Code = "undefined_column"
	InsufficientPrivilege Code = "insufficient_privilege"
	QueryCanceled         Code = "query_canceled"
)

// sqlstates maps SQLSTATE codes onto categories. Anything absent is Other.
var sqlstates = map[string]Code{
	"23502": NotNullViolation,
	"23503": ForeignKeyViolation,
	"23505": UniqueViolation,
	"23514": CheckViolation,
	"42601": SyntaxError,
	"42P01": UndefinedTable,
	"42703": UndefinedColumn,
	"42501": InsufficientPrivilege,
	"57014": QueryCanceled,
}

// MapCode returns the category for a SQLSTATE.
func MapCode(sqlstate string) Code {
	if code, ok := sqlstates[sqlstate]; ok {
		return code
	}
	return Other
}

// Severity mirrors the PostgreSQL message severity.
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

// MapSeverity normalizes the severity string; unknown values become ERROR.
func MapSeverity(severity string) Severity {
	switch s := Severity(severity); s {
	case SeverityFatal, SeverityPanic, SeverityWarning, SeverityNotice,
		SeverityDebug, SeverityInfo, SeverityLog:
		return s
	default:
		return SeverityError
	}
}

// Error is a classified PostgreSQL error.
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

	driverErr error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Severity, e.DatabaseCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}
