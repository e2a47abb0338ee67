// Package console is the ad-hoc SQL gateway behind the operator SQL runner.
//
// It executes one caller-supplied statement, discovers the shape of whatever
// comes back and coerces every cell into a JSON-safe Value. Nothing here knows
// the rental schema: columns, their count and their types are all learned at
// runtime from the rows the backend returns.
//
// The package is split along the three steps of a request:
//   - executor.go: trimming, the single backend round trip, timing
//   - schema.go:   column discovery from the first row
//   - coerce.go:   the per-cell decode strategy table and its fallbacks
package console

import "context"

// Column describes one result column as the backend reports it.
//
// Type is the upper-cased backend type name (BOOL, INT4, NUMERIC, TIMESTAMPTZ...).
// Columns whose type the backend connection does not know carry TypeUnknown.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TypeUnknown tags columns whose backend type could not be resolved.
const TypeUnknown = "UNKNOWN"

// Row is one fully materialized result row.
//
// Scan attempts to decode a cell into dst and reports failure as an error
// instead of panicking, so callers can treat a failed decode as "absent" and
// move on to the next strategy.
type Row interface {
	Columns() []Column
	IsNull(idx int) bool
	Scan(idx int, dst any) error
}

// Backend executes a raw statement against the database.
//
// Query performs exactly one round trip with the statement as given, reads the
// whole result before returning and releases any borrowed connection on every
// path. Statements that produce no rows (DDL, DML without RETURNING) return an
// empty slice and a nil error.
type Backend interface {
	Query(ctx context.Context, statement string) ([]Row, error)
}
