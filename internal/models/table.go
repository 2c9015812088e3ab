package models

// ResultTable is a materialized query result. Columns are exactly the result
// set's column names in order; every row has len(Columns) cells.
type ResultTable struct {
	Columns []string  `json:"columns"`
	Rows    [][]Value `json:"rows"`
}

// NewResultTable returns an empty table with the given columns.
func NewResultTable(columns ...string) *ResultTable {
	return &ResultTable{Columns: columns, Rows: [][]Value{}}
}

// EmptyTable is the table reported when the store could not be reached.
func EmptyTable() *ResultTable {
	return &ResultTable{Columns: []string{}, Rows: [][]Value{}}
}

// Append adds a row. It does not check the width.
func (t *ResultTable) Append(cells ...Value) {
	t.Rows = append(t.Rows, cells)
}

// Len returns the number of rows.
func (t *ResultTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty reports whether the table has no rows.
func (t *ResultTable) Empty() bool {
	return t.Len() == 0
}

// ColumnIndex returns the index of the named column or -1.
func (t *ResultTable) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Has reports whether the named column exists.
func (t *ResultTable) Has(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Column returns all cells of the named column, or nil if it is absent.
func (t *ResultTable) Column(name string) []Value {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

// Slice returns a view of rows [from, to), clamped to the table bounds.
func (t *ResultTable) Slice(from, to int) *ResultTable {
	n := t.Len()
	from = min(max(from, 0), n)
	to = min(max(to, from), n)
	return &ResultTable{Columns: t.Columns, Rows: t.Rows[from:to]}
}
