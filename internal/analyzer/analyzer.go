// Package analyzer computes aggregate views over a cleaned transactions table.
//
// An Analyzer holds one table and never modifies it; every operation returns
// a new dataset.Table whose first column is the grouping key. Groups are
// always emitted in ascending key order so results are reproducible.
package analyzer

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/Eldaram/data-analyzer/internal/dataset"
	apperrors "github.com/Eldaram/data-analyzer/internal/errors"
)

// Output column names
const (
	ColumnMean             = "mean"
	ColumnMedian           = "median"
	ColumnStd              = "std"
	ColumnTotalSpending    = "Total Spending"
	ColumnAverageSpending  = "Average Spending"
	ColumnTransactionCount = "Transaction Count"
)

// Analyzer runs analyses over a single table
type Analyzer struct {
	table      dataset.Table
	dateLayout string
	logger     *slog.Logger
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithDateLayout sets the layout used when a date column still holds text
func WithDateLayout(layout string) Option {
	return func(a *Analyzer) {
		if layout != "" {
			a.dateLayout = layout
		}
	}
}

// New creates an analyzer over t
func New(t dataset.Table, opts ...Option) *Analyzer {
	a := &Analyzer{
		table:      t,
		dateLayout: dataset.DateLayout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Table returns the analyzed table
func (a *Analyzer) Table() dataset.Table {
	return a.table
}

// SummaryStatistics groups rows by categoryCol and reports the mean, median
// and sample standard deviation of valueCol for each group. The deviation of a
// single-row group is NaN.
func (a *Analyzer) SummaryStatistics(categoryCol, valueCol string) (dataset.Table, error) {
	groups, err := a.group(categoryCol, valueCol)
	if err != nil {
		return dataset.Table{}, err
	}

	rows := make([][]any, len(groups))
	for i, g := range groups {
		rows[i] = []any{g.key, mean(g.values), median(g.values), stdDev(g.values)}
	}

	a.logger.Debug("Computed summary statistics",
		slog.String("category_column", categoryCol),
		slog.String("value_column", valueCol),
		slog.Int("groups", len(groups)))
	return dataset.New([]string{categoryCol, ColumnMean, ColumnMedian, ColumnStd}, rows)
}

// TimeSeriesAnalysis sums valueCol per calendar date in ascending order. Dates
// that cannot be parsed are collected into a trailing group with an empty key.
func (a *Analyzer) TimeSeriesAnalysis(dateCol, valueCol string) (dataset.Table, error) {
	if missing := a.table.Missing(dateCol, valueCol); len(missing) > 0 {
		return dataset.Table{}, apperrors.NewSchemaError(missing...)
	}
	dates, _ := a.table.Column(dateCol)
	values, err := a.table.Floats(valueCol)
	if err != nil {
		return dataset.Table{}, err
	}

	sums := make(map[time.Time]float64)
	var undated float64
	hasUndated := false
	for i, v := range dates {
		d, ok := a.parseDate(v)
		if !ok {
			undated = nansum(undated, values[i])
			hasUndated = true
			continue
		}
		sums[d] = nansum(sums[d], values[i])
	}

	keys := make([]time.Time, 0, len(sums))
	for d := range sums {
		keys = append(keys, d)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	rows := make([][]any, 0, len(keys)+1)
	for _, d := range keys {
		rows = append(rows, []any{d, sums[d]})
	}
	if hasUndated {
		rows = append(rows, []any{nil, undated})
		a.logger.Warn("Rows with unparseable dates grouped separately",
			slog.String("date_column", dateCol))
	}

	return dataset.New([]string{dateCol, valueCol}, rows)
}

// TopSpendingCategories sums valueCol per category and returns the topN
// largest totals in descending order. Equal totals are ordered by category.
func (a *Analyzer) TopSpendingCategories(categoryCol, valueCol string, topN int) (dataset.Table, error) {
	groups, err := a.group(categoryCol, valueCol)
	if err != nil {
		return dataset.Table{}, err
	}
	if topN < 0 {
		return dataset.Table{}, apperrors.NewValidationError(
			fmt.Sprintf("top_n must not be negative, got %d", topN))
	}

	totals := make([]float64, len(groups))
	for i, g := range groups {
		totals[i] = sum(g.values)
	}
	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}
	// groups are already in ascending key order, so a stable sort keeps ties by key
	sort.SliceStable(order, func(i, j int) bool { return totals[order[i]] > totals[order[j]] })

	if topN > len(order) {
		topN = len(order)
	}
	rows := make([][]any, topN)
	for i := 0; i < topN; i++ {
		g := order[i]
		rows[i] = []any{groups[g].key, totals[g]}
	}
	return dataset.New([]string{categoryCol, valueCol}, rows)
}

// CustomerSegmentation reports total, average and count of valueCol per
// customer.
func (a *Analyzer) CustomerSegmentation(customerCol, valueCol string) (dataset.Table, error) {
	groups, err := a.group(customerCol, valueCol)
	if err != nil {
		return dataset.Table{}, err
	}

	rows := make([][]any, len(groups))
	for i, g := range groups {
		rows[i] = []any{g.key, sum(g.values), mean(g.values), float64(count(g.values))}
	}
	return dataset.New([]string{
		customerCol, ColumnTotalSpending, ColumnAverageSpending, ColumnTransactionCount,
	}, rows)
}

func (a *Analyzer) parseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return time.Time{}, false
		}
		return d, true
	case string:
		if t, err := time.Parse(a.dateLayout, d); err == nil {
			return t, true
		}
		if t, err := time.Parse(time.RFC3339, d); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func nansum(acc, v float64) float64 {
	if math.IsNaN(v) {
		return acc
	}
	return acc + v
}

// present returns the non-NaN values
func present(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s = nansum(s, v)
	}
	return s
}

func count(values []float64) int {
	return len(present(values))
}

func mean(values []float64) float64 {
	p := present(values)
	if len(p) == 0 {
		return math.NaN()
	}
	return stat.Mean(p, nil)
}

func stdDev(values []float64) float64 {
	p := present(values)
	if len(p) < 2 {
		return math.NaN()
	}
	return stat.StdDev(p, nil)
}

// median averages the two middle values of an even-sized sample
func median(values []float64) float64 {
	p := present(values)
	if len(p) == 0 {
		return math.NaN()
	}
	sort.Float64s(p)
	mid := len(p) / 2
	if len(p)%2 == 1 {
		return p[mid]
	}
	return (p[mid-1] + p[mid]) / 2
}
