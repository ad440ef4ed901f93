// Package validation checks input and output file locations before a run
// touches them.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/Eldaram/data-analyzer/internal/errors"
)

// FileValidator validates the files a run reads and writes
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputFile checks that path is a readable, non-empty file in a
// format the loader can read. Failures are LOAD errors.
func (v *FileValidator) ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Input file does not exist", slog.String("file", path))
		return apperrors.NewLoadError(fmt.Sprintf("input file %s does not exist", path), err)
	}
	if err != nil {
		return apperrors.NewLoadError(fmt.Sprintf("failed to stat input file %s", path), err)
	}
	if info.IsDir() {
		v.logger.Error("Input path is a directory", slog.String("path", path))
		return apperrors.NewLoadError(fmt.Sprintf("%s is a directory, not a file", path), nil)
	}
	if info.Size() == 0 {
		return apperrors.NewLoadError(fmt.Sprintf("input file %s is empty", path), nil)
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		return apperrors.NewLoadError(fmt.Sprintf("%s is a temporary Excel file", path), nil)
	}
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		return apperrors.NewLoadError(fmt.Sprintf("%s: legacy .xls workbooks are not supported, save as .xlsx", path), nil)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Input file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewLoadError(fmt.Sprintf("input file %s is not readable", path), err)
	}
	file.Close()

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputPath checks that path can be written: its directory exists
// or can be created and the path itself is not a directory. Failures are
// STORAGE errors.
func (v *FileValidator) ValidateOutputPath(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return apperrors.NewStorageError(fmt.Sprintf("output path %s is a directory", path), nil)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("cannot create output directory %s", dir), err)
	}

	v.logger.Debug("Output path validated", slog.String("path", path))
	return nil
}
