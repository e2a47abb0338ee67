package console

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

// countingBackend returns canned rows or an error and counts round trips.
type countingBackend struct {
	rows       []Row
	err        error
	calls      int
	statements []string
}

func (b *countingBackend) Query(_ context.Context, statement string) ([]Row, error) {
	b.calls++
	b.statements = append(b.statements, statement)
	if b.err != nil {
		return nil, b.err
	}
	return b.rows, nil
}

func vehicleRows(t *testing.T) []Row {
	t.Helper()

	return []Row{
		newTextRow(t,
			testCell{name: "id", typ: "INT4", oid: pgtype.Int4OID, text: "1"},
			testCell{name: "make", typ: "VARCHAR", oid: pgtype.VarcharOID, text: "Toyota"},
			testCell{name: "daily_rate", typ: "NUMERIC", oid: pgtype.NumericOID, text: "45.50"},
			testCell{name: "registered", typ: "DATE", oid: pgtype.DateOID, text: "2024-03-15"},
		),
		newTextRow(t,
			testCell{name: "id", typ: "INT4", oid: pgtype.Int4OID, text: "2"},
			testCell{name: "make", typ: "VARCHAR", oid: pgtype.VarcharOID, text: "Skoda"},
			testCell{name: "daily_rate", typ: "NUMERIC", oid: pgtype.NumericOID, null: true},
			testCell{name: "registered", typ: "DATE", oid: pgtype.DateOID, text: "2023-11-02"},
		),
	}
}

func TestExecutor_EmptyStatementSkipsBackend(t *testing.T) {
	for _, statement := range []string{"", "   ", "\n\t  \r\n"} {
		backend := &countingBackend{}
		executor := NewExecutor(backend, nil)

		outcome := executor.Execute(context.Background(), statement)

		if !outcome.Failed() {
			t.Fatalf("%q: expected failure", statement)
		}
		if outcome.Failure.Kind != EmptyStatement {
			t.Errorf("%q: kind = %s, want %s", statement, outcome.Failure.Kind, EmptyStatement)
		}
		if outcome.Failure.Message != EmptyStatementMessage {
			t.Errorf("%q: message = %q", statement, outcome.Failure.Message)
		}
		if backend.calls != 0 {
			t.Errorf("%q: backend called %d times, want 0", statement, backend.calls)
		}
	}
}

func TestExecutor_BackendErrorIsVerbatim(t *testing.T) {
	diagnostic := `ERROR: syntax error at or near "SELEC" (SQLSTATE 42601)`
	backend := &countingBackend{err: errors.New(diagnostic)}
	executor := NewExecutor(backend, nil)

	outcome := executor.Execute(context.Background(), "SELEC 1")

	if !outcome.Failed() {
		t.Fatal("expected failure")
	}
	if outcome.Failure.Kind != BackendExecution {
		t.Errorf("kind = %s, want %s", outcome.Failure.Kind, BackendExecution)
	}
	if outcome.Failure.Message != diagnostic {
		t.Errorf("message = %q, want %q", outcome.Failure.Message, diagnostic)
	}
	if !errors.Is(outcome.Failure, backend.err) {
		t.Error("failure should unwrap to the backend error")
	}
	if outcome.StatusCode() != 400 {
		t.Errorf("status = %d, want 400", outcome.StatusCode())
	}
	if backend.calls != 1 {
		t.Errorf("backend called %d times, want exactly 1", backend.calls)
	}
}

func TestExecutor_SendsTrimmedStatementOnce(t *testing.T) {
	backend := &countingBackend{}
	executor := NewExecutor(backend, nil)

	executor.Execute(context.Background(), "  DELETE FROM reviews WHERE rating < 1;\n")

	if backend.calls != 1 {
		t.Fatalf("backend called %d times, want 1", backend.calls)
	}
	if backend.statements[0] != "DELETE FROM reviews WHERE rating < 1;" {
		t.Errorf("statement = %q", backend.statements[0])
	}
}

func TestExecutor_ZeroRows(t *testing.T) {
	executor := NewExecutor(&countingBackend{rows: nil}, nil)

	outcome := executor.Execute(context.Background(), "SELECT * FROM vehicles WHERE false")

	if outcome.Failed() {
		t.Fatalf("unexpected failure: %v", outcome.Failure)
	}
	r := outcome.Result
	if r.Columns == nil || len(r.Columns) != 0 {
		t.Errorf("columns = %#v, want empty non-nil", r.Columns)
	}
	if r.Rows == nil || len(r.Rows) != 0 {
		t.Errorf("rows = %#v, want empty non-nil", r.Rows)
	}
	if r.RowCount != 0 {
		t.Errorf("row_count = %d", r.RowCount)
	}

	b, err := json.Marshal(outcome)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cols, ok := decoded["columns"].([]any); !ok || len(cols) != 0 {
		t.Errorf("columns encoded as %v", decoded["columns"])
	}
}

func TestExecutor_ShapeInvariants(t *testing.T) {
	executor := NewExecutor(&countingBackend{rows: vehicleRows(t)}, nil)

	outcome := executor.Execute(context.Background(), "SELECT id, make, daily_rate, registered FROM vehicles")

	if outcome.Failed() {
		t.Fatalf("unexpected failure: %v", outcome.Failure)
	}
	r := outcome.Result

	wantColumns := []string{"id", "make", "daily_rate", "registered"}
	if !reflect.DeepEqual(r.Columns, wantColumns) {
		t.Errorf("columns = %v, want %v", r.Columns, wantColumns)
	}
	if r.RowCount != len(r.Rows) {
		t.Errorf("row_count = %d, rows = %d", r.RowCount, len(r.Rows))
	}
	for i, row := range r.Rows {
		if len(row) != len(r.Columns) {
			t.Errorf("row %d has %d cells, want %d", i, len(row), len(r.Columns))
		}
	}
	if r.DurationMS < 0 {
		t.Errorf("duration_ms = %f", r.DurationMS)
	}
	if r.Schema[2].Type != "NUMERIC" {
		t.Errorf("schema type = %q, want NUMERIC", r.Schema[2].Type)
	}

	want := [][]any{
		{int64(1), "Toyota", "45.50", "2024-03-15"},
		{int64(2), "Skoda", nil, "2023-11-02"},
	}
	for i, row := range r.Rows {
		for j, v := range row {
			if v.Interface() != want[i][j] {
				t.Errorf("rows[%d][%d] = %#v, want %#v", i, j, v.Interface(), want[i][j])
			}
		}
	}
}

func TestExecutor_Idempotent(t *testing.T) {
	executor := NewExecutor(&countingBackend{rows: vehicleRows(t)}, nil)

	first := executor.Execute(context.Background(), "SELECT * FROM vehicles")
	second := executor.Execute(context.Background(), "SELECT * FROM vehicles")

	if !reflect.DeepEqual(first.Result.Columns, second.Result.Columns) {
		t.Error("columns differ between runs")
	}
	if !reflect.DeepEqual(first.Result.Rows, second.Result.Rows) {
		t.Error("rows differ between runs")
	}
}

func TestExecutor_UndecodableColumnStillSerializes(t *testing.T) {
	rows := []Row{&brokenRow{columns: []Column{{Name: "tags", Type: "_TEXT"}}}}
	executor := NewExecutor(&countingBackend{rows: rows}, nil)

	outcome := executor.Execute(context.Background(), "SELECT tags FROM vehicles")

	if outcome.Failed() {
		t.Fatalf("unexpected failure: %v", outcome.Failure)
	}
	b, err := json.Marshal(outcome)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"columns":["tags"],"rows":[[null]],"row_count":1,"duration_ms":`
	if len(b) < len(want) || string(b[:len(want)]) != want {
		t.Errorf("got %s", b)
	}
}

func TestDiscover_UsesFirstRow(t *testing.T) {
	rows := vehicleRows(t)

	got := Discover(rows)

	if len(got) != 4 || got[0].Name != "id" || got[3].Type != "DATE" {
		t.Errorf("got %+v", got)
	}

	got[0].Name = "changed"
	if rows[0].Columns()[0].Name != "id" {
		t.Error("Discover must not alias the row's column slice")
	}
}
