package console

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Executor runs caller-supplied statements through a Backend.
//
// It holds no per-request state; one Executor serves concurrent requests.
// Statements are never retried.
type Executor struct {
	backend Backend
	logger  *zerolog.Logger
}

// NewExecutor builds an Executor. A nil logger discards output.
func NewExecutor(backend Backend, logger *zerolog.Logger) *Executor {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Executor{
		backend: backend,
		logger:  logger,
	}
}

// Execute trims statement, runs it and assembles the Outcome.
//
// Blank statements fail with EmptyStatementMessage without touching the
// backend. DurationMS spans dispatch to the last materialized row.
func (e *Executor) Execute(ctx context.Context, statement string) Outcome {
	statement = strings.TrimSpace(statement)
	if statement == "" {
		return failed(EmptyStatement, EmptyStatementMessage, nil)
	}

	start := time.Now()
	rows, err := e.backend.Query(ctx, statement)
	elapsed := time.Since(start)
	if err != nil {
		return failed(BackendExecution, err.Error(), err)
	}

	schema := Discover(rows)
	values := make([][]Value, 0, len(rows))
	unreadable := 0
	for _, row := range rows {
		cells := make([]Value, len(schema))
		for i := range schema {
			v, ok := coerce(row, i)
			if !ok {
				unreadable++
			}
			cells[i] = v
		}
		values = append(values, cells)
	}

	if unreadable > 0 {
		e.loggerFor(ctx).Debug().
			Int("cells", unreadable).
			Msg("console cells could not be decoded and were returned as null")
	}

	return succeeded(&Result{
		Columns:    columnNames(schema),
		Rows:       values,
		RowCount:   len(values),
		DurationMS: float64(elapsed.Nanoseconds()) / float64(time.Millisecond),
		Schema:     schema,
	})
}

// loggerFor prefers the request logger carried by ctx.
func (e *Executor) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return e.logger
}
