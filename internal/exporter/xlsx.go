package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/Eldaram/data-analyzer/internal/config"
	"github.com/Eldaram/data-analyzer/internal/dataset"
	apperrors "github.com/Eldaram/data-analyzer/internal/errors"
)

// DefaultSheet names the worksheet written by XLSXWriter
const DefaultSheet = "Analysis"

// XLSXWriter exports tables as Excel workbooks
type XLSXWriter struct {
	paths  *config.Paths
	logger *slog.Logger
	Sheet  string
}

// NewXLSXWriter creates a workbook writer resolving relative names like CSVWriter
func NewXLSXWriter(paths *config.Paths, logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{paths: paths, logger: logger, Sheet: DefaultSheet}
}

// WriteTable writes t to a single-sheet workbook with a bold header row.
// Numbers stay numeric cells; dates are written in their report form.
func (w *XLSXWriter) WriteTable(filePath string, t dataset.Table) (string, error) {
	fullPath := filePath
	if w.paths != nil {
		fullPath = w.paths.GetReportPath(filePath)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := w.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return "", apperrors.NewStorageError("failed to name sheet", err)
	}

	columns := t.Columns()
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return "", apperrors.NewStorageError("failed to write header", err)
	}

	if len(columns) > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return "", apperrors.NewStorageError("failed to create header style", err)
		}
		last, err := excelize.CoordinatesToCellName(len(columns), 1)
		if err != nil {
			return "", apperrors.NewStorageError("failed to address header", err)
		}
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return "", apperrors.NewStorageError("failed to style header", err)
		}
	}

	for i := 0; i < t.Len(); i++ {
		row := make([]interface{}, len(columns))
		for j, c := range columns {
			row[j] = cellValue(t.Value(i, c))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", apperrors.NewStorageError("failed to address row", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", apperrors.NewStorageError(fmt.Sprintf("failed to write row %d", i), err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create directory", err)
	}
	if err := f.SaveAs(fullPath); err != nil {
		return "", apperrors.NewStorageError("failed to save workbook", err)
	}

	w.logger.Info("Report saved",
		slog.String("path", fullPath),
		slog.String("sheet", sheet),
		slog.Int("rows", t.Len()))
	return fullPath, nil
}

// cellValue maps a table cell to what excelize should store
func cellValue(v any) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		if dataset.IsMissing(val) {
			return nil
		}
		return val
	default:
		return dataset.FormatValue(val)
	}
}
