package console

import (
	"encoding/json"
	"net/http"
)

// FailureKind classifies why a statement produced no result.
type FailureKind uint8

const (
	// EmptyStatement is rejected locally; the backend is never contacted.
	EmptyStatement FailureKind = iota + 1
	// BackendExecution means the backend ran the statement and reported an error.
	BackendExecution
)

func (k FailureKind) String() string {
	switch k {
	case EmptyStatement:
		return "empty_statement"
	case BackendExecution:
		return "backend_execution"
	default:
		return "unknown"
	}
}

// EmptyStatementMessage is the fixed message for blank statements.
const EmptyStatementMessage = "Empty query"

// Failure carries the message shown to the caller. For backend failures it is
// the backend's diagnostic, untouched.
type Failure struct {
	Kind    FailureKind
	Message string
	// Cause is the backend error, kept for logging. Nil for EmptyStatement.
	Cause error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// Result is a successful execution.
//
// Columns and Rows are never nil so they encode as [] rather than null.
// Schema keeps the backend type of each column for logs; it is not sent.
type Result struct {
	Columns    []string  `json:"columns"`
	Rows       [][]Value `json:"rows"`
	RowCount   int       `json:"row_count"`
	DurationMS float64   `json:"duration_ms"`
	Schema     []Column  `json:"-"`
}

// Outcome holds exactly one of Result or Failure.
type Outcome struct {
	Result  *Result
	Failure *Failure
}

func succeeded(r *Result) Outcome {
	return Outcome{Result: r}
}

func failed(kind FailureKind, message string, cause error) Outcome {
	return Outcome{Failure: &Failure{Kind: kind, Message: message, Cause: cause}}
}

// Failed reports whether the outcome is a failure.
func (o Outcome) Failed() bool {
	return o.Failure != nil
}

// StatusCode is 400 for every failure: each one is caused by the statement the
// caller sent.
func (o Outcome) StatusCode() int {
	if o.Failed() {
		return http.StatusBadRequest
	}
	return http.StatusOK
}

// MarshalJSON renders {"error": ...} for failures and the Result otherwise.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.Failure != nil {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{Error: o.Failure.Message})
	}
	if o.Result == nil {
		return json.Marshal(&Result{Columns: []string{}, Rows: [][]Value{}})
	}
	return json.Marshal(o.Result)
}
