package service

import (
	"context"
	"strings"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/deppfellow/rentaldesk/internal/console"
	"github.com/deppfellow/rentaldesk/internal/lib/job"
	"github.com/deppfellow/rentaldesk/internal/sqlerr"
)

// auditEnqueueTimeout bounds the Redis round trip that queues an audit entry.
const auditEnqueueTimeout = 2 * time.Second

// Auditor queues console executions for the audit trail.
type Auditor interface {
	EnqueueConsoleAudit(ctx context.Context, p job.ConsoleAuditPayload) error
}

type ConsoleService struct {
	executor      *console.Executor
	auditor       Auditor
	slowThreshold time.Duration
}

// NewConsoleService builds the service. A nil auditor disables auditing; a
// zero slowThreshold disables slow statement warnings.
func NewConsoleService(backend console.Backend, auditor Auditor, slowThreshold time.Duration) *ConsoleService {
	return &ConsoleService{
		executor:      console.NewExecutor(backend, nil),
		auditor:       auditor,
		slowThreshold: slowThreshold,
	}
}

// Execute runs statement and returns its outcome unchanged. Logging,
// tracing and auditing happen on the side and never alter the outcome.
func (s *ConsoleService) Execute(ctx context.Context, statement, requestID string) console.Outcome {
	executedAt := time.Now()
	outcome := s.executor.Execute(ctx, statement)

	s.log(ctx, outcome)
	s.trace(ctx, outcome)

	if s.auditor != nil && (!outcome.Failed() || outcome.Failure.Kind != console.EmptyStatement) {
		s.audit(ctx, strings.TrimSpace(statement), requestID, executedAt, outcome)
	}

	return outcome
}

func (s *ConsoleService) log(ctx context.Context, outcome console.Outcome) {
	logger := zerolog.Ctx(ctx)

	if outcome.Failed() {
		event := logger.Warn().Str("failure", outcome.Failure.Kind.String())
		if pgErr := sqlerr.Classify(outcome.Failure.Cause); pgErr != nil {
			code, summary := sqlerr.Describe(pgErr)
			event = event.
				Str("sqlstate", pgErr.DatabaseCode).
				Str("error_category", string(pgErr.Code)).
				Str("error_code", code).
				Str("summary", summary).
				Str("severity", string(pgErr.Severity))
		}
		event.Str("error", outcome.Failure.Message).Msg("console statement failed")
		return
	}

	result := outcome.Result
	elapsed := time.Duration(result.DurationMS * float64(time.Millisecond))

	event := logger.Debug()
	if s.slowThreshold > 0 && elapsed >= s.slowThreshold {
		event = logger.Warn().Dur("threshold", s.slowThreshold)
	}
	event.
		Int("row_count", result.RowCount).
		Int("column_count", len(result.Columns)).
		Dur("duration", elapsed).
		Msg("console statement executed")
}

func (s *ConsoleService) trace(ctx context.Context, outcome console.Outcome) {
	txn := newrelic.FromContext(ctx)
	if txn == nil {
		return
	}

	txn.AddAttribute("console.succeeded", !outcome.Failed())
	if outcome.Failed() {
		txn.AddAttribute("console.failure", outcome.Failure.Kind.String())
		return
	}
	txn.AddAttribute("console.row_count", outcome.Result.RowCount)
	txn.AddAttribute("console.duration_ms", outcome.Result.DurationMS)
}

// audit queues the entry on a context detached from the request, so a client
// hanging up does not lose it.
func (s *ConsoleService) audit(ctx context.Context, statement, requestID string, executedAt time.Time, outcome console.Outcome) {
	payload := job.ConsoleAuditPayload{
		Statement:  statement,
		Succeeded:  !outcome.Failed(),
		RequestID:  requestID,
		ExecutedAt: executedAt,
	}
	if outcome.Failed() {
		payload.Error = outcome.Failure.Message
	} else {
		payload.RowCount = outcome.Result.RowCount
		payload.DurationMS = outcome.Result.DurationMS
	}

	enqueueCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditEnqueueTimeout)
	defer cancel()

	if err := s.auditor.EnqueueConsoleAudit(enqueueCtx, payload); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to enqueue console audit entry")
	}
}
