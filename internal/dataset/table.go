package dataset

import (
	"fmt"
	"math"

	apperrors "github.com/Eldaram/data-analyzer/internal/errors"
)

// Table is an immutable, ordered collection of rows over named columns
type Table struct {
	columns []string
	index   map[string]int
	kinds   []Kind
	rows    [][]any
}

// New builds a table from column names and row values. Rows are copied and
// cells normalized, so later changes to the arguments do not affect the table.
func New(columns []string, rows [][]any) (Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return Table{}, fmt.Errorf("duplicate column name %q", c)
		}
		index[c] = i
	}

	copied := make([][]any, len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return Table{}, fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(columns))
		}
		out := make([]any, len(row))
		for j, v := range row {
			nv, err := normalize(v)
			if err != nil {
				return Table{}, fmt.Errorf("row %d column %q: %w", i, columns[j], err)
			}
			out[j] = nv
		}
		copied[i] = out
	}

	cols := make([]string, len(columns))
	copy(cols, columns)
	return build(cols, index, copied), nil
}

// MustNew is like New but panics on error, for tests and literals
func MustNew(columns []string, rows [][]any) Table {
	t, err := New(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// build assembles a table from parts the caller already owns
func build(columns []string, index map[string]int, rows [][]any) Table {
	if index == nil {
		index = make(map[string]int, len(columns))
		for i, c := range columns {
			index[c] = i
		}
	}
	kinds := make([]Kind, len(columns))
	for j := range columns {
		kinds[j] = inferKind(rows, j)
	}
	return Table{columns: columns, index: index, kinds: kinds, rows: rows}
}

func inferKind(rows [][]any, col int) Kind {
	kind := KindEmpty
	for _, row := range rows {
		v := row[col]
		if IsMissing(v) {
			continue
		}
		k := kindOf(v)
		if kind == KindEmpty {
			kind = k
		} else if kind != k {
			return KindMixed
		}
	}
	return kind
}

// Columns returns the column names in order
func (t Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of rows
func (t Table) Len() int {
	return len(t.rows)
}

// Has reports whether the table has the named column
func (t Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Missing returns the subset of columns that the table does not have, in order
func (t Table) Missing(columns ...string) []string {
	var missing []string
	for _, c := range columns {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Kind returns the inferred kind of a column, or KindEmpty if it does not exist
func (t Table) Kind(column string) Kind {
	j, ok := t.index[column]
	if !ok {
		return KindEmpty
	}
	return t.kinds[j]
}

// Value returns the cell at row i in the named column
func (t Table) Value(i int, column string) any {
	j, ok := t.index[column]
	if !ok || i < 0 || i >= len(t.rows) {
		return nil
	}
	return t.rows[i][j]
}

// Column returns a copy of all values in the named column
func (t Table) Column(column string) ([]any, error) {
	j, ok := t.index[column]
	if !ok {
		return nil, apperrors.NewSchemaError(column)
	}
	out := make([]any, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[j]
	}
	return out, nil
}

// Floats returns the named column as numbers. Missing cells become NaN; any
// other non-numeric cell is a validation error.
func (t Table) Floats(column string) ([]float64, error) {
	j, ok := t.index[column]
	if !ok {
		return nil, apperrors.NewSchemaError(column)
	}
	out := make([]float64, len(t.rows))
	for i, row := range t.rows {
		switch v := row[j].(type) {
		case float64:
			out[i] = v
		case nil:
			out[i] = math.NaN()
		default:
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("column '%s' is not numeric (row %d holds %q)", column, i, FormatValue(v)),
				column)
		}
	}
	return out, nil
}

// Row returns a view of row i
func (t Table) Row(i int) Row {
	return Row{table: t, index: i}
}

// Filter returns a new table containing the rows for which keep returns true.
// Row order is preserved.
func (t Table) Filter(keep func(r Row) bool) Table {
	var rows [][]any
	for i := range t.rows {
		if keep(Row{table: t, index: i}) {
			rows = append(rows, t.rows[i])
		}
	}
	if rows == nil {
		rows = [][]any{}
	}
	return build(t.columns, t.index, rows)
}

// Select returns a new table with only the named columns, in the given order
func (t Table) Select(columns ...string) (Table, error) {
	if missing := t.Missing(columns...); len(missing) > 0 {
		return Table{}, apperrors.NewSchemaError(missing...)
	}
	rows := make([][]any, len(t.rows))
	for i, row := range t.rows {
		out := make([]any, len(columns))
		for k, c := range columns {
			out[k] = row[t.index[c]]
		}
		rows[i] = out
	}
	return New(columns, rows)
}

// WithColumn returns a new table where the named column holds values. The
// column is appended when it does not exist.
func (t Table) WithColumn(column string, values []any) (Table, error) {
	if len(values) != len(t.rows) {
		return Table{}, fmt.Errorf("column %q has %d values, table has %d rows", column, len(values), len(t.rows))
	}
	columns := t.Columns()
	j, exists := t.index[column]
	if !exists {
		columns = append(columns, column)
		j = len(columns) - 1
	}
	rows := make([][]any, len(t.rows))
	for i, row := range t.rows {
		out := make([]any, len(columns))
		copy(out, row)
		out[j] = values[i]
		rows[i] = out
	}
	return New(columns, rows)
}
