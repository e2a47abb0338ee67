package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/deppfellow/rentaldesk/internal/errs"
)

func TestMapCode(t *testing.T) {
	tests := map[string]Code{
		"23505": UniqueViolation,
		"23503": ForeignKeyViolation,
		"42601": SyntaxError,
		"42P01": UndefinedTable,
		"XX000": Other,
	}

	for sqlstate, want := range tests {
		if got := MapCode(sqlstate); got != want {
			t.Errorf("MapCode(%q) = %q, want %q", sqlstate, got, want)
		}
	}
}

func TestMapSeverity(t *testing.T) {
	if got := MapSeverity("FATAL"); got != SeverityFatal {
		t.Errorf("got %q", got)
	}
	if got := MapSeverity("weird"); got != SeverityError {
		t.Errorf("unknown severity = %q, want ERROR", got)
	}
}

func TestClassify(t *testing.T) {
	pgErr := &pgconn.PgError{Severity: "ERROR", Code: "42P01", Message: `relation "nope" does not exist`}

	got := Classify(fmt.Errorf("query: %w", pgErr))
	if got == nil {
		t.Fatal("expected a classified error")
	}
	if got.Code != UndefinedTable || got.DatabaseCode != "42P01" {
		t.Errorf("classified = %+v", got)
	}
	if !errors.Is(got, pgErr) {
		t.Error("classified error should unwrap to the driver error")
	}
	if ErrCode(got) != UndefinedTable {
		t.Errorf("ErrCode = %q", ErrCode(got))
	}

	if Classify(errors.New("dial tcp: connection refused")) != nil {
		t.Error("client-side errors carry no SQLSTATE")
	}
}

func TestSingular(t *testing.T) {
	tests := map[string]string{
		"vehicle_categories": "vehicle_category",
		"clients":            "client",
		"":                   "",
	}

	for in, want := range tests {
		if got := singular(in); got != want {
			t.Errorf("singular(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	tests := map[string]string{
		"clients_email_key":          "email",
		"unique_vehicles_license":    "license",
		"vehicles_license_plate_key": "plate",
		"reviews_rating_range":       "",
		"":                           "",
	}

	for in, want := range tests {
		if got := extractColumnForUniqueViolation(in); got != want {
			t.Errorf("extract(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name     string
		err      *pgconn.PgError
		wantCode string
		wantMsg  string
	}{
		{
			name:     "unique violation names the column",
			err:      &pgconn.PgError{Code: "23505", TableName: "clients", ConstraintName: "clients_email_key"},
			wantCode: "CLIENT_ALREADY_EXISTS",
			wantMsg:  "A Client with this Email already exists",
		},
		{
			name:     "foreign key names the referenced entity",
			err:      &pgconn.PgError{Code: "23503", TableName: "reservations", ColumnName: "vehicle_id"},
			wantCode: "RESERVATION_NOT_FOUND",
			wantMsg:  "The referenced Vehicle does not exist",
		},
		{
			name:     "not null",
			err:      &pgconn.PgError{Code: "23502", TableName: "payments", ColumnName: "payment_method"},
			wantCode: "PAYMENT_REQUIRED",
			wantMsg:  "The Payment Method is required",
		},
		{
			name:     "check on a plural -ies table",
			err:      &pgconn.PgError{Code: "23514", TableName: "vehicle_categories", ColumnName: "daily_rate_max"},
			wantCode: "VEHICLE_CATEGORY_INVALID",
			wantMsg:  "The Daily Rate Max value does not meet required conditions",
		},
		{
			name:     "syntax error",
			err:      &pgconn.PgError{Code: "42601"},
			wantCode: "RECORD_ERROR",
			wantMsg:  "An error occurred while processing your request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := Describe(ConvertPgError(tt.err))
			if code != tt.wantCode {
				t.Errorf("code = %q, want %q", code, tt.wantCode)
			}
			if msg != tt.wantMsg {
				t.Errorf("message = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"no rows", fmt.Errorf("summary: %w", pgx.ErrNoRows), http.StatusNotFound, "NOT_FOUND"},
		{"statement timeout", fmt.Errorf("top vehicles: %w", &pgconn.PgError{Code: "57014"}), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"constraint violation stays internal", &pgconn.PgError{Code: "23505", TableName: "clients"}, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"unknown server error", &pgconn.PgError{Code: "XX000"}, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var httpErr *errs.HTTPError
			if !errors.As(HandleError(tt.err), &httpErr) {
				t.Fatal("HandleError must return an *errs.HTTPError")
			}
			if httpErr.Status != tt.wantStatus {
				t.Errorf("status = %d, want %d", httpErr.Status, tt.wantStatus)
			}
			if httpErr.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", httpErr.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleError_PassesHTTPErrorsThrough(t *testing.T) {
	original := errs.NewNotFoundError("Vehicle not found", true, nil)

	if got := HandleError(original); got != error(original) {
		t.Errorf("got %v, want the original error", got)
	}
}
