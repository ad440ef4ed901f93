package loader

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/Eldaram/data-analyzer/internal/dataset"
	apperrors "github.com/Eldaram/data-analyzer/internal/errors"
)

// loadWorkbook reads the first sheet (or the configured one) of an .xlsx file.
// The first row is the header; short rows are padded with missing cells.
func (l *Loader) loadWorkbook(path string) (dataset.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return dataset.Table{}, apperrors.NewLoadError("error loading workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	sheet := l.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return dataset.Table{}, apperrors.NewLoadError(
			fmt.Sprintf("error reading sheet %q", sheet), err).WithContext("path", path)
	}
	if len(rows) == 0 {
		return dataset.Table{}, apperrors.NewLoadError("workbook sheet is empty", nil).
			WithContext("path", path).WithContext("sheet", sheet)
	}

	missing := make(map[string]struct{}, len(l.missing))
	for _, m := range l.missing {
		missing[m] = struct{}{}
	}

	header := rows[0]
	records := make([][]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) > len(header) {
			return dataset.Table{}, apperrors.NewLoadError(
				fmt.Sprintf("row has %d cells, header has %d", len(row), len(header)), nil).
				WithContext("path", path)
		}
		rec := make([]any, len(header))
		for j, cell := range row {
			if _, isMissing := missing[cell]; !isMissing {
				rec[j] = cell
			}
		}
		records = append(records, rec)
	}

	t, err := dataset.New(header, records)
	if err != nil {
		return dataset.Table{}, apperrors.NewLoadError("error loading workbook", err).
			WithContext("path", path)
	}

	l.logger.Info("Loaded workbook",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("rows", t.Len()))
	return t, nil
}
