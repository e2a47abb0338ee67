package console

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const (
	// Timestamps print whole seconds; formatTimestamp appends the fraction.
	timestampLayout = "2006-01-02 15:04:05"

	// moneyScale is the number of fraction digits in a MONEY value's minor unit.
	moneyScale = 2
)

// strategy decodes the cells of the backend types it matches.
// decode reports false when the cell could not be read as that type.
type strategy struct {
	name   string
	match  func(typeName string) bool
	decode func(row Row, idx int) (Value, bool)
}

func typeIn(names ...string) func(string) bool {
	return func(typeName string) bool {
		return slices.Contains(names, typeName)
	}
}

// strategies is evaluated in order; the first entry whose match accepts the
// column type decides. Types no entry accepts go straight to the text fallback.
var strategies = []strategy{
	{name: "bool", match: typeIn("BOOL"), decode: decodeBool},
	{name: "integer", match: typeIn("INT2", "INT4", "INT8"), decode: decodeInteger},
	{name: "float4", match: typeIn("FLOAT4"), decode: decodeFloat4},
	{name: "float8", match: typeIn("FLOAT8"), decode: decodeFloat8},
	{name: "numeric", match: typeIn("NUMERIC"), decode: decodeNumeric},
	{name: "money", match: typeIn("MONEY"), decode: decodeMoney},
	{name: "date", match: typeIn("DATE"), decode: decodeDate},
	{name: "timestamp", match: typeIn("TIMESTAMP"), decode: decodeTimestamp},
	{name: "timestamptz", match: typeIn("TIMESTAMPTZ"), decode: decodeTimestamptz},
}

// HasStrategy reports whether typeName is decoded by a typed strategy rather
// than by the text fallback.
func HasStrategy(typeName string) bool {
	for _, s := range strategies {
		if s.match(typeName) {
			return true
		}
	}
	return false
}

// Coerce converts cell idx of row into a Value. It never fails: a cell that no
// strategy and not even the text fallback can read becomes null.
func Coerce(row Row, idx int) Value {
	v, _ := coerce(row, idx)
	return v
}

// coerce is Coerce that also reports whether the null it may return came from
// an unreadable cell rather than an SQL NULL.
func coerce(row Row, idx int) (Value, bool) {
	columns := row.Columns()
	if idx < 0 || idx >= len(columns) || row.IsNull(idx) {
		return Null(), true
	}

	typeName := columns[idx].Type
	for _, s := range strategies {
		if !s.match(typeName) {
			continue
		}
		if v, ok := s.decode(row, idx); ok {
			return v, true
		}
		break
	}

	return decodeText(row, idx)
}

func decodeBool(row Row, idx int) (Value, bool) {
	var b bool
	if err := row.Scan(idx, &b); err != nil {
		return Value{}, false
	}
	return Bool(b), true
}

func decodeInteger(row Row, idx int) (Value, bool) {
	var n int64
	if err := row.Scan(idx, &n); err != nil {
		return Value{}, false
	}
	return Integer(n), true
}

// decodeFloat4 widens through the shortest float32 text form, so a stored
// 19.99 comes out as 19.99 rather than 19.989999771118164.
func decodeFloat4(row Row, idx int) (Value, bool) {
	var f float32
	if err := row.Scan(idx, &f); err != nil {
		return Value{}, false
	}
	wide, err := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	if err != nil {
		return Value{}, false
	}
	return Float(wide), true
}

func decodeFloat8(row Row, idx int) (Value, bool) {
	var f float64
	if err := row.Scan(idx, &f); err != nil {
		return Value{}, false
	}
	return Float(f), true
}

// decodeNumeric keeps the column's scale: NUMERIC(10,2) 20.00 renders "20.00".
// NaN and infinite numerics are not decimals and fall through.
func decodeNumeric(row Row, idx int) (Value, bool) {
	var n pgtype.Numeric
	if err := row.Scan(idx, &n); err != nil {
		return Value{}, false
	}
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite || n.Int == nil {
		return Value{}, false
	}

	d := decimal.NewFromBigInt(n.Int, n.Exp)
	if n.Exp < 0 {
		return String(d.StringFixed(-n.Exp)), true
	}
	return String(d.String()), true
}

// decodeMoney reads MONEY as its int64 count of minor units.
func decodeMoney(row Row, idx int) (Value, bool) {
	var minor int64
	if err := row.Scan(idx, &minor); err != nil {
		return Value{}, false
	}
	return String(decimal.New(minor, -moneyScale).StringFixed(moneyScale)), true
}

func decodeDate(row Row, idx int) (Value, bool) {
	var d pgtype.Date
	if err := row.Scan(idx, &d); err != nil || !d.Valid {
		return Value{}, false
	}
	if d.InfinityModifier != pgtype.Finite {
		return String(d.InfinityModifier.String()), true
	}
	return String(d.Time.Format(time.DateOnly)), true
}

func decodeTimestamp(row Row, idx int) (Value, bool) {
	var ts pgtype.Timestamp
	if err := row.Scan(idx, &ts); err != nil || !ts.Valid {
		return Value{}, false
	}
	if ts.InfinityModifier != pgtype.Finite {
		return String(ts.InfinityModifier.String()), true
	}
	return String(formatTimestamp(ts.Time)), true
}

func decodeTimestamptz(row Row, idx int) (Value, bool) {
	var ts pgtype.Timestamptz
	if err := row.Scan(idx, &ts); err != nil || !ts.Valid {
		return Value{}, false
	}
	if ts.InfinityModifier != pgtype.Finite {
		return String(ts.InfinityModifier.String()), true
	}
	return String(formatTimestamp(ts.Time.UTC()) + " UTC"), true
}

// decodeText is the catch-all for arrays, JSON, enums, UUIDs and anything else
// the table does not name: whatever the backend's text form is, or null.
func decodeText(row Row, idx int) (Value, bool) {
	var s string
	if err := row.Scan(idx, &s); err != nil {
		return Null(), false
	}
	return String(s), true
}

// formatTimestamp renders t with its fraction in groups of three digits:
// milli, micro or nanoseconds, whichever is exact, and none for whole seconds.
// 10:30:00.25 prints as 10:30:00.250.
func formatTimestamp(t time.Time) string {
	base := t.Format(timestampLayout)
	nanos := t.Nanosecond()
	switch {
	case nanos == 0:
		return base
	case nanos%int(time.Millisecond) == 0:
		return fmt.Sprintf("%s.%03d", base, nanos/int(time.Millisecond))
	case nanos%int(time.Microsecond) == 0:
		return fmt.Sprintf("%s.%06d", base, nanos/int(time.Microsecond))
	}
	return fmt.Sprintf("%s.%09d", base, nanos)
}
