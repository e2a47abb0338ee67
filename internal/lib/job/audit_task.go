package job

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// TaskConsoleAudit records one console execution.
const TaskConsoleAudit = "console:audit"

// ConsoleAuditPayload is the JSON body of a TaskConsoleAudit task.
type ConsoleAuditPayload struct {
	Statement  string    `json:"statement"`
	Succeeded  bool      `json:"succeeded"`
	RowCount   int       `json:"row_count"`
	DurationMS float64   `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	ExecutedAt time.Time `json:"executed_at"`
}

// NewConsoleAuditTask builds the task. Audit rows are not urgent, so they go
// to the low queue with a few retries.
func NewConsoleAuditTask(p ConsoleAuditPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskConsoleAudit,
		payload,
		asynq.MaxRetry(5),
		asynq.Queue(QueueLow),
		asynq.Timeout(30*time.Second),
	), nil
}

// EnqueueConsoleAudit builds and enqueues the task.
func (j *JobService) EnqueueConsoleAudit(ctx context.Context, p ConsoleAuditPayload) error {
	task, err := NewConsoleAuditTask(p)
	if err != nil {
		return err
	}

	_, err = j.Client.EnqueueContext(ctx, task)
	return err
}
