package visualizer

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/Eldaram/data-analyzer/internal/analyzer"
	apperrors "github.com/Eldaram/data-analyzer/internal/errors"
)

// Kind identifies a chart type
type Kind string

const (
	KindBar     Kind = "bar"
	KindLine    Kind = "line"
	KindPie     Kind = "pie"
	KindHeatmap Kind = "heatmap"
)

// Chart is a rendered chart held in memory as PNG bytes
type Chart struct {
	Kind   Kind
	Title  string
	Width  int
	Height int
	// Matrix is the correlation matrix behind a heatmap; nil for other kinds
	Matrix *analyzer.Matrix

	png []byte
}

// PNG returns a copy of the encoded image
func (c *Chart) PNG() []byte {
	return bytes.Clone(c.png)
}

// WriteTo writes the encoded image to w
func (c *Chart) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.png)
	return int64(n), err
}

// Save writes the image to path, creating parent directories
func (c *Chart) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.NewStorageError("failed to create chart directory", err).
				WithContext("path", path)
		}
	}
	if err := os.WriteFile(path, c.png, 0o644); err != nil {
		return apperrors.NewStorageError("failed to write chart", err).
			WithContext("path", path)
	}
	return nil
}
