package analyzer

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"

	"github.com/Eldaram/data-analyzer/internal/dataset"
	apperrors "github.com/Eldaram/data-analyzer/internal/errors"
)

// Distribution column names
const (
	ColumnRange = "Range"
	ColumnLower = "Lower"
	ColumnUpper = "Upper"
	ColumnCount = "Count"
)

// DefaultBins is the number of intervals SpendingDistribution uses by default
const DefaultBins = 10

// SpendingDistribution splits the range of valueCol into bins equal-width
// intervals (lo, hi] and counts the values in each. The lowest edge is moved
// down by 0.1% of the range so the minimum lands in the first interval; a
// range of a single value is widened by 0.1% on each side. Every interval is
// returned, in ascending order, including empty ones.
func (a *Analyzer) SpendingDistribution(valueCol string, bins int) (dataset.Table, error) {
	if !a.table.Has(valueCol) {
		return dataset.Table{}, apperrors.NewSchemaError(valueCol)
	}
	if bins < 1 {
		return dataset.Table{}, apperrors.NewValidationError(
			fmt.Sprintf("bins must be at least 1, got %d", bins))
	}
	raw, err := a.table.Floats(valueCol)
	if err != nil {
		return dataset.Table{}, err
	}
	values := present(raw)
	if len(values) == 0 {
		return dataset.Table{}, apperrors.NewValidationError(
			fmt.Sprintf("column '%s' has no values to bin", valueCol), valueCol)
	}

	edges := binEdges(values, bins)
	counts := make([]int, bins)
	for _, v := range values {
		// smallest i with edges[i] >= v, so v falls in (edges[i-1], edges[i]]
		i := sort.SearchFloat64s(edges, v)
		if i < 1 {
			i = 1
		}
		if i > bins {
			i = bins
		}
		counts[i-1]++
	}

	rows := make([][]any, bins)
	for i := 0; i < bins; i++ {
		lo, hi := edges[i], edges[i+1]
		rows[i] = []any{intervalLabel(lo, hi), lo, hi, float64(counts[i])}
	}

	a.logger.Debug("Computed spending distribution",
		slog.String("value_column", valueCol),
		slog.Int("bins", bins),
		slog.Int("values", len(values)))
	return dataset.New([]string{ColumnRange, ColumnLower, ColumnUpper, ColumnCount}, rows)
}

func binEdges(values []float64, bins int) []float64 {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	if lo == hi {
		if lo == 0 {
			lo, hi = -0.001, 0.001
		} else {
			lo -= 0.001 * math.Abs(lo)
			hi += 0.001 * math.Abs(hi)
		}
		return linspace(lo, hi, bins+1)
	}

	edges := linspace(lo, hi, bins+1)
	edges[0] -= (hi - lo) * 0.001
	return edges
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	out[n-1] = hi
	return out
}

func intervalLabel(lo, hi float64) string {
	return "(" + formatEdge(lo) + ", " + formatEdge(hi) + "]"
}

// formatEdge rounds to three decimals and trims trailing zeros
func formatEdge(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
