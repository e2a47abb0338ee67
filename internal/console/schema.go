package console

// Discover returns the column layout of a result, read from its first row.
//
// An empty result has no layout: the backend's field metadata is deliberately
// not consulted, so zero rows always means zero columns.
func Discover(rows []Row) []Column {
	if len(rows) == 0 {
		return []Column{}
	}
	columns := rows[0].Columns()
	out := make([]Column, len(columns))
	copy(out, columns)
	return out
}

// columnNames projects the names out of a layout, keeping order.
func columnNames(columns []Column) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}
