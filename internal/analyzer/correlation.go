package analyzer

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/Eldaram/data-analyzer/internal/dataset"
	apperrors "github.com/Eldaram/data-analyzer/internal/errors"
)

// ColumnLabel heads the row-label column of a correlation table
const ColumnLabel = "column"

// Matrix is a square correlation matrix over named columns
type Matrix struct {
	Columns []string
	Values  [][]float64
}

// At returns the correlation between columns i and j
func (m Matrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// Table renders the matrix with a leading label column
func (m Matrix) Table() (dataset.Table, error) {
	columns := append([]string{ColumnLabel}, m.Columns...)
	rows := make([][]any, len(m.Columns))
	for i, name := range m.Columns {
		row := make([]any, 0, len(columns))
		row = append(row, name)
		for _, v := range m.Values[i] {
			row = append(row, v)
		}
		rows[i] = row
	}
	return dataset.New(columns, rows)
}

// Pearson computes pairwise Pearson correlation over every numeric column of
// t. Each pair uses only the rows where both values are present; a pair with
// fewer than two such rows, or with a constant column, is NaN.
func Pearson(t dataset.Table) (Matrix, error) {
	var names []string
	var cols [][]float64
	for _, c := range t.Columns() {
		if t.Kind(c) != dataset.KindNumber {
			continue
		}
		vals, err := t.Floats(c)
		if err != nil {
			return Matrix{}, err
		}
		names = append(names, c)
		cols = append(cols, vals)
	}
	if len(names) == 0 {
		return Matrix{}, apperrors.NewAppError(apperrors.ErrTypeSchema, "table has no numeric columns", nil)
	}

	n := len(names)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := pairCorrelation(cols[i], cols[j])
			values[i][j] = r
			values[j][i] = r
		}
	}
	return Matrix{Columns: names, Values: values}, nil
}

func pairCorrelation(x, y []float64) float64 {
	var xs, ys []float64
	for k := range x {
		if math.IsNaN(x[k]) || math.IsNaN(y[k]) {
			continue
		}
		xs = append(xs, x[k])
		ys = append(ys, y[k])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}

// CorrelationMatrix returns the Pearson correlation of the numeric columns of
// the analyzed table.
func (a *Analyzer) CorrelationMatrix() (dataset.Table, error) {
	m, err := Pearson(a.table)
	if err != nil {
		return dataset.Table{}, err
	}
	return m.Table()
}
