// Package table defines the tabular record type shared by the loaders,
// the normalizers, and the mention extractor.
package table

// Row maps a column name to its value. A column absent from the map is null.
type Row map[string]string

// Get returns the value of a column and whether it is non-null.
func (r Row) Get(column string) (string, bool) {
	v, ok := r[column]
	return v, ok
}

// Value returns the value of a column, with null read as the empty string.
func (r Row) Value(column string) string {
	return r[column]
}

// clone returns a shallow copy of the row.
func (r Row) clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered set of columns and rows.
//
// Tables are values: every transform in this module returns a new Table and
// never writes to the rows of its input.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates a table with the given columns and rows.
func New(columns []string, rows []Row) Table {
	return Table{Columns: columns, Rows: rows}
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table declares the named column.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the names from required that the table lacks, in order.
func (t Table) MissingColumns(required ...string) []string {
	var missing []string
	for _, name := range required {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Filter returns a new table holding the rows for which keep returns true.
func (t Table) Filter(keep func(Row) bool) Table {
	rows := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return Table{Columns: t.Columns, Rows: rows}
}

// MapColumn returns a new table where fn has been applied to every non-null
// value of column. If fn returns ok=false the cell becomes null.
func (t Table) MapColumn(column string, fn func(string) (string, bool)) Table {
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		v, present := r[column]
		if !present {
			rows[i] = r
			continue
		}
		out := r.clone()
		if mapped, ok := fn(v); ok {
			out[column] = mapped
		} else {
			delete(out, column)
		}
		rows[i] = out
	}
	return Table{Columns: t.Columns, Rows: rows}
}

// Concat returns a table with the rows of a followed by the rows of b.
// Columns are the union of both, in first-seen order.
func Concat(a, b Table) Table {
	columns := append([]string(nil), a.Columns...)
	for _, c := range b.Columns {
		if !a.HasColumn(c) {
			columns = append(columns, c)
		}
	}
	rows := make([]Row, 0, len(a.Rows)+len(b.Rows))
	rows = append(rows, a.Rows...)
	rows = append(rows, b.Rows...)
	return Table{Columns: columns, Rows: rows}
}

// DropDuplicates returns a table keeping the first row for each value of
// column, and the number of rows removed. Null values are grouped together.
func (t Table) DropDuplicates(column string) (Table, int) {
	type key struct {
		value string
		null  bool
	}
	seen := make(map[key]bool, len(t.Rows))
	rows := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		v, ok := r[column]
		k := key{value: v, null: !ok}
		if seen[k] {
			continue
		}
		seen[k] = true
		rows = append(rows, r)
	}
	return Table{Columns: t.Columns, Rows: rows}, len(t.Rows) - len(rows)
}

// Unique returns the distinct non-null values of column in first-seen order.
func (t Table) Unique(column string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range t.Rows {
		v, ok := r[column]
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
