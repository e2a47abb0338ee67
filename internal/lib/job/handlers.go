package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/deppfellow/rentaldesk/internal/repository"
)

// AuditStore persists console audit entries.
type AuditStore interface {
	Insert(ctx context.Context, entry repository.AuditEntry) error
}

func (j *JobService) handleConsoleAuditTask(ctx context.Context, t *asynq.Task) error {
	var p ConsoleAuditPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// A payload that does not parse never will; retrying is pointless.
		return fmt.Errorf("failed to unmarshal console audit payload: %v: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().
		Str("type", TaskConsoleAudit).
		Str("request_id", p.RequestID).
		Logger()

	err := j.auditStore.Insert(ctx, repository.AuditEntry{
		Statement:  p.Statement,
		Succeeded:  p.Succeeded,
		RowCount:   p.RowCount,
		DurationMS: p.DurationMS,
		Error:      p.Error,
		RequestID:  p.RequestID,
		ExecutedAt: p.ExecutedAt,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to record console audit entry")
		return err
	}

	log.Debug().Bool("succeeded", p.Succeeded).Msg("recorded console audit entry")
	return nil
}
