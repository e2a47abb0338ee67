package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/deppfellow/rentaldesk/internal/console"
	"github.com/deppfellow/rentaldesk/internal/database"
)

// ConsoleRepository runs console statements. It implements console.Backend.
type ConsoleRepository struct {
	db DBTX
}

func NewConsoleRepository(db DBTX) *ConsoleRepository {
	return &ConsoleRepository{db: db}
}

var _ console.Backend = (*ConsoleRepository)(nil)

// resultFormats requests binary only for the types the console decodes
// itself. Every other column arrives in the server's own text form, so arrays,
// intervals and ranges read exactly as psql would print them.
var resultFormats = pgx.QueryResultFormatsByOID{
	pgtype.BoolOID:        pgtype.BinaryFormatCode,
	pgtype.Int2OID:        pgtype.BinaryFormatCode,
	pgtype.Int4OID:        pgtype.BinaryFormatCode,
	pgtype.Int8OID:        pgtype.BinaryFormatCode,
	pgtype.Float4OID:      pgtype.BinaryFormatCode,
	pgtype.Float8OID:      pgtype.BinaryFormatCode,
	pgtype.NumericOID:     pgtype.BinaryFormatCode,
	database.MoneyOID:     pgtype.BinaryFormatCode,
	pgtype.DateOID:        pgtype.BinaryFormatCode,
	pgtype.TimestampOID:   pgtype.BinaryFormatCode,
	pgtype.TimestamptzOID: pgtype.BinaryFormatCode,
}

// Query executes statement once, verbatim, and copies every row out before
// the connection goes back to the pool.
//
// The statement is described first on the same connection so result formats
// can be chosen per column type. It never enters the prepared statement
// cache: each console statement is usually run once.
func (r *ConsoleRepository) Query(ctx context.Context, statement string) ([]console.Row, error) {
	rows, err := r.db.Query(ctx, statement, pgx.QueryExecModeDescribeExec, resultFormats)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// The connection's own type map is not safe to use once the connection
	// is released, so cells are decoded against a private one.
	typeMap := newTypeMap()
	columns := describeColumns(typeMap, rows.FieldDescriptions())

	var result []console.Row
	for rows.Next() {
		result = append(result, newPGRow(typeMap, columns, rows.FieldDescriptions(), rows.RawValues()))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []console.Row{}
	}
	return result, nil
}

func newTypeMap() *pgtype.Map {
	m := pgtype.NewMap()
	database.RegisterTypes(m)
	return m
}

// describeColumns names each column's type the way the backend does,
// upper-cased: int4 becomes INT4.
func describeColumns(m *pgtype.Map, fields []pgconn.FieldDescription) []console.Column {
	columns := make([]console.Column, len(fields))
	for i, fd := range fields {
		typeName := console.TypeUnknown
		if t, ok := m.TypeForOID(fd.DataTypeOID); ok {
			typeName = strings.ToUpper(t.Name)
		}
		columns[i] = console.Column{Name: fd.Name, Type: typeName}
	}
	return columns
}

// pgRow is a materialized row: raw wire values plus what is needed to
// decode them later.
type pgRow struct {
	typeMap *pgtype.Map
	columns []console.Column
	oids    []uint32
	formats []int16
	values  [][]byte
}

// newPGRow copies raw, which pgx reuses on the next call to Next.
func newPGRow(m *pgtype.Map, columns []console.Column, fields []pgconn.FieldDescription, raw [][]byte) *pgRow {
	row := &pgRow{
		typeMap: m,
		columns: columns,
		oids:    make([]uint32, len(fields)),
		formats: make([]int16, len(fields)),
		values:  make([][]byte, len(raw)),
	}
	for i, fd := range fields {
		row.oids[i] = fd.DataTypeOID
		row.formats[i] = fd.Format
	}
	for i, v := range raw {
		if v != nil {
			row.values[i] = append(make([]byte, 0, len(v)), v...)
		}
	}
	return row
}

func (r *pgRow) Columns() []console.Column {
	return r.columns
}

func (r *pgRow) IsNull(idx int) bool {
	return idx >= 0 && idx < len(r.values) && r.values[idx] == nil
}

func (r *pgRow) Scan(idx int, dst any) error {
	if idx < 0 || idx >= len(r.values) || idx >= len(r.oids) {
		return fmt.Errorf("column index %d out of range", idx)
	}
	return r.typeMap.Scan(r.oids[idx], r.formats[idx], r.values[idx], dst)
}
