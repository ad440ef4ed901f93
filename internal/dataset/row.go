package dataset

// Row is a read-only view of one table row
type Row struct {
	table Table
	index int
}

// Index returns the position of the row in its table
func (r Row) Index() int {
	return r.index
}

// Get returns the value of the named column, or nil when it does not exist
func (r Row) Get(column string) any {
	return r.table.Value(r.index, column)
}

// HasMissing reports whether any cell of the row is missing
func (r Row) HasMissing() bool {
	for _, v := range r.table.rows[r.index] {
		if IsMissing(v) {
			return true
		}
	}
	return false
}

// Map returns the row as a column-name to value mapping
func (r Row) Map() map[string]any {
	out := make(map[string]any, len(r.table.columns))
	for j, c := range r.table.columns {
		out[c] = r.table.rows[r.index][j]
	}
	return out
}
