package console

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

const moneyOID = 790

// testCell is one text-format cell as the backend would send it.
type testCell struct {
	name string
	typ  string
	oid  uint32
	text string
	null bool
}

// textRow decodes text-format payloads with a real pgtype.Map, the same way a
// live connection would.
type textRow struct {
	m       *pgtype.Map
	columns []Column
	oids    []uint32
	cells   [][]byte
}

func newTypeMap() *pgtype.Map {
	m := pgtype.NewMap()
	m.RegisterType(&pgtype.Type{Name: "money", OID: moneyOID, Codec: pgtype.Int8Codec{}})
	return m
}

func newTextRow(t *testing.T, cells ...testCell) *textRow {
	t.Helper()

	r := &textRow{m: newTypeMap()}
	for _, c := range cells {
		r.columns = append(r.columns, Column{Name: c.name, Type: c.typ})
		r.oids = append(r.oids, c.oid)
		if c.null {
			r.cells = append(r.cells, nil)
		} else {
			r.cells = append(r.cells, []byte(c.text))
		}
	}
	return r
}

func (r *textRow) Columns() []Column { return r.columns }

func (r *textRow) IsNull(idx int) bool { return r.cells[idx] == nil }

func (r *textRow) Scan(idx int, dst any) error {
	return r.m.Scan(r.oids[idx], pgtype.TextFormatCode, r.cells[idx], dst)
}

// brokenRow reports a non-null cell that nothing can decode.
type brokenRow struct {
	columns []Column
}

func (r *brokenRow) Columns() []Column { return r.columns }

func (r *brokenRow) IsNull(int) bool { return false }

func (r *brokenRow) Scan(int, any) error { return errors.New("cannot decode") }
