// Package visualizer renders analysis tables as PNG charts with go-chart.
//
// Each call takes its table, the columns to plot and an Options value; the
// Visualizer itself only carries a Style (sizes, font size and the default
// color and colormap), so rendering has no shared mutable state.
package visualizer

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/Eldaram/data-analyzer/internal/dataset"
	apperrors "github.com/Eldaram/data-analyzer/internal/errors"
)

// Style holds the rendering defaults of a Visualizer
type Style struct {
	Width    int
	Height   int
	PieSize  int
	FontSize float64
	Color    string
	Colormap string
}

// DefaultStyle returns the default chart style
func DefaultStyle() Style {
	return Style{
		Width:    1000,
		Height:   600,
		PieSize:  800,
		FontSize: 10,
		Color:    "blue",
		Colormap: DefaultColormap,
	}
}

// Options configures a single chart
type Options struct {
	Title    string
	Color    string
	Colormap string
	// SavePath, when set, is where the PNG is written after rendering
	SavePath string
}

// Visualizer renders charts
type Visualizer struct {
	style  Style
	logger *slog.Logger
}

// Option configures a Visualizer
type Option func(*Visualizer)

// WithStyle replaces the default style; zero fields keep their defaults
func WithStyle(s Style) Option {
	return func(v *Visualizer) {
		d := DefaultStyle()
		if s.Width <= 0 {
			s.Width = d.Width
		}
		if s.Height <= 0 {
			s.Height = d.Height
		}
		if s.PieSize <= 0 {
			s.PieSize = d.PieSize
		}
		if s.FontSize <= 0 {
			s.FontSize = d.FontSize
		}
		if s.Color == "" {
			s.Color = d.Color
		}
		if s.Colormap == "" {
			s.Colormap = d.Colormap
		}
		v.style = s
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(v *Visualizer) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// New creates a Visualizer
func New(opts ...Option) *Visualizer {
	v := &Visualizer{
		style:  DefaultStyle(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Style returns the visualizer's style
func (v *Visualizer) Style() Style {
	return v.style
}

// finish saves the chart when requested and logs the result
func (v *Visualizer) finish(c *Chart, opts Options) (*Chart, error) {
	if opts.SavePath != "" {
		if err := c.Save(opts.SavePath); err != nil {
			return nil, err
		}
		v.logger.Info("Chart saved",
			slog.String("kind", string(c.Kind)),
			slog.String("path", opts.SavePath))
	}
	v.logger.Debug("Chart rendered",
		slog.String("kind", string(c.Kind)),
		slog.String("title", c.Title),
		slog.Int("bytes", len(c.png)))
	return c, nil
}

func titleOr(title, fallback string) string {
	if title == "" {
		return fallback
	}
	return title
}

// labelsAndValues reads a label column and a numeric column, skipping rows
// where the number is missing.
func labelsAndValues(t dataset.Table, labelCol, valueCol string) ([]string, []float64, error) {
	if missing := t.Missing(labelCol, valueCol); len(missing) > 0 {
		return nil, nil, apperrors.NewSchemaError(missing...)
	}
	values, err := t.Floats(valueCol)
	if err != nil {
		return nil, nil, err
	}
	labels := make([]string, 0, len(values))
	kept := make([]float64, 0, len(values))
	for i, val := range values {
		if math.IsNaN(val) {
			continue
		}
		labels = append(labels, dataset.FormatValue(t.Value(i, labelCol)))
		kept = append(kept, val)
	}
	if len(kept) == 0 {
		return nil, nil, apperrors.NewRenderError(fmt.Sprintf("no values to plot in column '%s'", valueCol), nil)
	}
	return labels, kept, nil
}

// paddedRange returns [lo, hi] widened when it collapses to a point
func paddedRange(lo, hi float64) (float64, float64) {
	if lo == hi {
		pad := math.Max(math.Abs(lo)*0.1, 1)
		return lo - pad, hi + pad
	}
	return lo, hi
}
