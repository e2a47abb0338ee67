package repository

import (
	"context"
	"time"
)

// AuditEntry is one executed console statement.
type AuditEntry struct {
	Statement  string
	Succeeded  bool
	RowCount   int
	DurationMS float64
	Error      string
	RequestID  string
	ExecutedAt time.Time
}

// AuditRepository writes the console_audit trail.
type AuditRepository struct {
	db DBTX
}

func NewAuditRepository(db DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert stores entry. Empty Error and RequestID are stored as NULL.
func (r *AuditRepository) Insert(ctx context.Context, entry AuditEntry) error {
	executedAt := entry.ExecutedAt
	if executedAt.IsZero() {
		executedAt = time.Now()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO console_audit (statement, succeeded, row_count, duration_ms, error, request_id, executed_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7)`,
		entry.Statement,
		entry.Succeeded,
		entry.RowCount,
		entry.DurationMS,
		entry.Error,
		entry.RequestID,
		executedAt,
	)
	return err
}
