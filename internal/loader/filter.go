package loader

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Eldaram/data-analyzer/internal/dataset"
	apperrors "github.com/Eldaram/data-analyzer/internal/errors"
)

// FilterByDateRange keeps rows whose date falls within [start, end], both
// bounds inclusive. Bounds use the loader's date layout.
func (l *Loader) FilterByDateRange(t dataset.Table, start, end string) (dataset.Table, error) {
	from, err := time.Parse(l.dateLayout, start)
	if err != nil {
		return dataset.Table{}, apperrors.NewValidationError(
			fmt.Sprintf("invalid start date %q, expected layout %s", start, l.dateLayout))
	}
	to, err := time.Parse(l.dateLayout, end)
	if err != nil {
		return dataset.Table{}, apperrors.NewValidationError(
			fmt.Sprintf("invalid end date %q, expected layout %s", end, l.dateLayout))
	}
	if !t.Has(DateColumn) {
		return dataset.Table{}, apperrors.NewSchemaError(DateColumn)
	}

	filtered := t.Filter(func(r dataset.Row) bool {
		d, ok := l.parseDate(r.Get(DateColumn))
		return ok && !d.Before(from) && !d.After(to)
	})

	l.logger.Info("Filtered by date range",
		slog.String("start", start),
		slog.String("end", end),
		slog.Int("rows", filtered.Len()))
	return filtered, nil
}

// FilterByCategories keeps rows whose value in column, rendered as text, is
// one of allowed.
func (l *Loader) FilterByCategories(t dataset.Table, column string, allowed []string) (dataset.Table, error) {
	if !t.Has(column) {
		return dataset.Table{}, apperrors.NewSchemaError(column)
	}

	wanted := make(map[string]struct{}, len(allowed))
	for _, c := range allowed {
		wanted[c] = struct{}{}
	}

	filtered := t.Filter(func(r dataset.Row) bool {
		_, ok := wanted[dataset.FormatValue(r.Get(column))]
		return ok
	})

	l.logger.Info("Filtered by categories",
		slog.String("column", column),
		slog.Any("allowed", allowed),
		slog.Int("rows", filtered.Len()))
	return filtered, nil
}
