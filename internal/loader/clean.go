package loader

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Eldaram/data-analyzer/internal/dataset"
)

// Clean parses the date column with the configured layout, drops rows whose
// date is missing or malformed, and converts text columns to numbers when
// every non-missing value in them is numeric. The input table is unchanged.
func (l *Loader) Clean(t dataset.Table) (dataset.Table, error) {
	out := t
	if t.Has(DateColumn) {
		var err error
		out, err = l.cleanDates(t)
		if err != nil {
			return dataset.Table{}, err
		}
	}

	for _, col := range out.Columns() {
		if col == DateColumn {
			continue
		}
		kind := out.Kind(col)
		if kind != dataset.KindText && kind != dataset.KindMixed {
			continue
		}
		values, _ := out.Column(col)
		nums, ok := parseNumbers(values)
		if !ok {
			continue
		}
		var err error
		if out, err = out.WithColumn(col, nums); err != nil {
			return dataset.Table{}, err
		}
		l.logger.Debug("Converted column to numeric", slog.String("column", col))
	}

	return out, nil
}

func (l *Loader) cleanDates(t dataset.Table) (dataset.Table, error) {
	values, _ := t.Column(DateColumn)
	parsed := make([]any, len(values))
	for i, v := range values {
		if d, ok := l.parseDate(v); ok {
			parsed[i] = d
		}
	}

	withDates, err := t.WithColumn(DateColumn, parsed)
	if err != nil {
		return dataset.Table{}, err
	}
	cleaned := withDates.Filter(func(r dataset.Row) bool {
		return r.Get(DateColumn) != nil
	})
	if dropped := t.Len() - cleaned.Len(); dropped > 0 {
		l.logger.Info("Dropped rows with invalid dates",
			slog.Int("dropped", dropped),
			slog.String("layout", l.dateLayout))
	}
	return cleaned, nil
}

func (l *Loader) parseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, !d.IsZero()
	case string:
		parsed, err := time.Parse(l.dateLayout, strings.TrimSpace(d))
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}

// parseNumbers converts values to float64. It reports false if any
// non-missing value is not numeric.
func parseNumbers(values []any) ([]any, bool) {
	out := make([]any, len(values))
	seen := false
	for i, v := range values {
		switch n := v.(type) {
		case nil:
		case float64:
			out[i] = n
			seen = true
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return nil, false
			}
			out[i] = f
			seen = true
		default:
			return nil, false
		}
	}
	return out, seen
}
