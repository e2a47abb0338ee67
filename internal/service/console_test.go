package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/deppfellow/rentaldesk/internal/console"
	"github.com/deppfellow/rentaldesk/internal/lib/job"
)

type stubBackend struct {
	rows  []console.Row
	err   error
	delay time.Duration
}

func (b *stubBackend) Query(context.Context, string) ([]console.Row, error) {
	time.Sleep(b.delay)
	return b.rows, b.err
}

type recordingAuditor struct {
	payloads []job.ConsoleAuditPayload
	err      error
}

func (a *recordingAuditor) EnqueueConsoleAudit(_ context.Context, p job.ConsoleAuditPayload) error {
	a.payloads = append(a.payloads, p)
	return a.err
}

func loggedContext(buf *bytes.Buffer) context.Context {
	logger := zerolog.New(buf).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

func TestConsoleService_AuditsBackendFailure(t *testing.T) {
	pgErr := &pgconn.PgError{Severity: "ERROR", Code: "42601", Message: `syntax error at or near "SELEC"`}
	auditor := &recordingAuditor{}
	svc := NewConsoleService(&stubBackend{err: pgErr}, auditor, 0)
	var logs bytes.Buffer

	outcome := svc.Execute(loggedContext(&logs), "  SELEC 1 ", "req-9")

	if !outcome.Failed() || outcome.Failure.Message != pgErr.Error() {
		t.Fatalf("outcome = %+v", outcome.Failure)
	}
	if len(auditor.payloads) != 1 {
		t.Fatalf("audited %d times, want 1", len(auditor.payloads))
	}
	p := auditor.payloads[0]
	if p.Statement != "SELEC 1" || p.Succeeded || p.Error != pgErr.Error() || p.RequestID != "req-9" {
		t.Errorf("payload = %+v", p)
	}
	if !strings.Contains(logs.String(), `"sqlstate":"42601"`) {
		t.Errorf("failure log should carry the SQLSTATE: %s", logs.String())
	}
}

func TestConsoleService_SkipsAuditForEmptyStatement(t *testing.T) {
	auditor := &recordingAuditor{}
	svc := NewConsoleService(&stubBackend{}, auditor, 0)

	outcome := svc.Execute(context.Background(), "   ", "")

	if !outcome.Failed() || outcome.Failure.Message != console.EmptyStatementMessage {
		t.Fatalf("outcome = %+v", outcome)
	}
	if len(auditor.payloads) != 0 {
		t.Error("nothing ran, so nothing is audited")
	}
}

func TestConsoleService_AuditFailureDoesNotChangeOutcome(t *testing.T) {
	auditor := &recordingAuditor{err: errors.New("redis: connection refused")}
	svc := NewConsoleService(&stubBackend{rows: []console.Row{}}, auditor, 0)

	outcome := svc.Execute(context.Background(), "DELETE FROM reviews WHERE false", "req-1")

	if outcome.Failed() {
		t.Fatalf("unexpected failure: %s", outcome.Failure.Message)
	}
	if outcome.StatusCode() != 200 || outcome.Result.RowCount != 0 {
		t.Errorf("outcome = %+v", outcome.Result)
	}
	if len(auditor.payloads) != 1 || !auditor.payloads[0].Succeeded {
		t.Errorf("payloads = %+v", auditor.payloads)
	}
}

func TestConsoleService_WithoutAuditor(t *testing.T) {
	svc := NewConsoleService(&stubBackend{rows: []console.Row{}}, nil, 0)

	if outcome := svc.Execute(context.Background(), "SELECT 1 WHERE false", ""); outcome.Failed() {
		t.Fatalf("unexpected failure: %s", outcome.Failure.Message)
	}
}

func TestConsoleService_SlowStatementWarns(t *testing.T) {
	backend := &stubBackend{rows: []console.Row{}, delay: 2 * time.Millisecond}
	svc := NewConsoleService(backend, nil, time.Millisecond)
	var logs bytes.Buffer

	svc.Execute(loggedContext(&logs), "SELECT pg_sleep(0)", "")

	if !strings.Contains(logs.String(), `"level":"warn"`) {
		t.Errorf("expected a slow statement warning: %s", logs.String())
	}
}

func TestConsoleService_LogsConstraintSummary(t *testing.T) {
	pgErr := &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23505",
		Message:        `duplicate key value violates unique constraint "clients_email_key"`,
		TableName:      "clients",
		ConstraintName: "clients_email_key",
	}
	svc := NewConsoleService(&stubBackend{err: pgErr}, nil, 0)
	var logs bytes.Buffer

	outcome := svc.Execute(loggedContext(&logs), "INSERT INTO clients (email) VALUES ('dup@example.com')", "")

	if !outcome.Failed() || outcome.Failure.Message != pgErr.Error() {
		t.Fatalf("client message must stay verbatim: %+v", outcome.Failure)
	}
	for _, want := range []string{
		`"error_code":"CLIENT_ALREADY_EXISTS"`,
		`"summary":"A Client with this Email already exists"`,
		`"error_category":"unique_violation"`,
	} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("log missing %s: %s", want, logs.String())
		}
	}
}
