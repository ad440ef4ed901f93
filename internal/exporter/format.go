package exporter

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Eldaram/data-analyzer/internal/config"
	"github.com/Eldaram/data-analyzer/internal/dataset"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// TableWriter persists a table and reports where it went
type TableWriter interface {
	WriteTable(filePath string, t dataset.Table) (string, error)
}

// FormatFromPath picks the format from the file extension. Anything other
// than .xlsx is written as CSV.
func FormatFromPath(filePath string) Format {
	if strings.EqualFold(filepath.Ext(filePath), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// NewTableWriter returns the writer for the format filePath calls for,
// configured from opts.
func NewTableWriter(filePath string, paths *config.Paths, opts config.ExportConfig, logger *slog.Logger) TableWriter {
	if FormatFromPath(filePath) == FormatXLSX {
		w := NewXLSXWriter(paths, logger)
		if opts.Sheet != "" {
			w.Sheet = opts.Sheet
		}
		return w
	}
	w := NewCSVWriter(paths, logger)
	w.BOM = opts.BOM
	w.Delimiter = opts.DelimiterRune()
	return w
}

// WriteTable saves t to filePath in the format its extension names
func WriteTable(filePath string, t dataset.Table, paths *config.Paths, opts config.ExportConfig, logger *slog.Logger) (string, error) {
	return NewTableWriter(filePath, paths, opts, logger).WriteTable(filePath, t)
}
