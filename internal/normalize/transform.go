package normalize

import "github.com/matsen/druggraph/internal/table"

// CleanText returns a table with hex escape sequences removed from each of
// the named columns. Columns the table lacks are ignored.
func CleanText(t table.Table, columns ...string) table.Table {
	for _, c := range columns {
		t = t.MapColumn(c, func(v string) (string, bool) {
			return CleanHexSequences(v), true
		})
	}
	return t
}

// StandardizeDates returns a table whose column holds YYYY-MM-DD dates.
// Unparseable dates become null.
func StandardizeDates(t table.Table, column string) table.Table {
	return t.MapColumn(column, StandardizeDate)
}

// KeepValid returns the rows whose column value satisfies valid, and the
// number of rows dropped. A null value is never valid.
func KeepValid(t table.Table, column string, valid func(string) bool) (table.Table, int) {
	out := t.Filter(func(r table.Row) bool {
		v, ok := r.Get(column)
		return ok && valid(v)
	})
	return out, t.Len() - out.Len()
}
