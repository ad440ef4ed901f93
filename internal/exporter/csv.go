package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Eldaram/data-analyzer/internal/config"
	"github.com/Eldaram/data-analyzer/internal/dataset"
	apperrors "github.com/Eldaram/data-analyzer/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
	// BOM prefixes files with a UTF-8 byte order mark so Excel recognizes
	// the encoding
	BOM       bool
	Delimiter rune
}

// NewCSVWriter creates a new CSV writer. Relative file names are placed in
// the reports directory of paths; a nil paths uses them as given.
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool
	Delimiter rune
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	w.logger.Debug("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return apperrors.NewStorageError("failed to create file", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			return apperrors.NewStorageError("failed to write BOM", err)
		}
	}

	writer := csv.NewWriter(file)
	if options.Delimiter != 0 {
		writer.Comma = options.Delimiter
	}

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return apperrors.NewStorageError("failed to write headers", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write record %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError("failed to flush CSV", err)
	}
	if err := file.Close(); err != nil {
		return apperrors.NewStorageError("failed to close CSV", err)
	}
	return nil
}

// WriteTable writes t with a header row using the writer's BOM and
// delimiter settings.
func (w *CSVWriter) WriteTable(filePath string, t dataset.Table) (string, error) {
	records := t.Records()
	err := w.WriteCSV(filePath, WriteOptions{
		Headers:   records[0],
		Records:   records[1:],
		BOMPrefix: w.BOM,
		Delimiter: w.Delimiter,
	})
	if err != nil {
		return "", err
	}

	path := w.resolvePath(filePath)

	w.logger.Info("Report saved",
		slog.String("path", path),
		slog.Int("rows", t.Len()))
	return path, nil
}

func (w *CSVWriter) resolvePath(filePath string) string {
	if w.paths == nil {
		return filePath
	}
	return w.paths.GetReportPath(filePath)
}
