package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/Eldaram/data-analyzer/internal/dataset"
	apperrors "github.com/Eldaram/data-analyzer/internal/errors"
)

// DateColumn is the column Clean and FilterByDateRange operate on
const DateColumn = "date"

// DefaultRequiredColumns are the columns a transaction file must carry
var DefaultRequiredColumns = []string{"date", "category", "amount", "customer_id"}

// DefaultMissingMarkers are the cell values read as missing
var DefaultMissingMarkers = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None", "<nil>"}

// Loader loads, validates and cleans record tables
type Loader struct {
	required   []string
	dateLayout string
	delimiter  rune
	missing    []string
	sheet      string
	logger     *slog.Logger
}

// Option configures a Loader
type Option func(*Loader)

// WithDateLayout sets the layout used to parse the date column
func WithDateLayout(layout string) Option {
	return func(l *Loader) {
		if layout != "" {
			l.dateLayout = layout
		}
	}
}

// WithDelimiter sets the field delimiter of delimited sources
func WithDelimiter(d rune) Option {
	return func(l *Loader) {
		if d != 0 {
			l.delimiter = d
		}
	}
}

// WithMissingMarkers replaces the set of cell values treated as missing in
// delimited sources. The literal "NaN" is always read as missing whatever
// the set holds.
func WithMissingMarkers(markers []string) Option {
	return func(l *Loader) {
		if markers != nil {
			l.missing = append([]string(nil), markers...)
		}
	}
}

// WithSheet selects the workbook sheet read from .xlsx sources
func WithSheet(name string) Option {
	return func(l *Loader) { l.sheet = name }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a loader that requires the given columns at validation
func NewLoader(required []string, opts ...Option) *Loader {
	l := &Loader{
		required:   append([]string(nil), required...),
		dateLayout: dataset.DateLayout,
		delimiter:  ',',
		missing:    append([]string(nil), DefaultMissingMarkers...),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RequiredColumns returns the configured required columns
func (l *Loader) RequiredColumns() []string {
	return append([]string(nil), l.required...)
}

// DateLayout returns the layout used for the date column
func (l *Loader) DateLayout() string {
	return l.dateLayout
}

// Load reads a file into a table. Files with an .xlsx extension are read as
// workbooks, anything else as delimited text.
func (l *Loader) Load(path string) (dataset.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return l.loadWorkbook(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return dataset.Table{}, apperrors.NewLoadError("error loading CSV file", err).
			WithContext("path", path)
	}
	defer file.Close()

	t, err := l.LoadReader(file)
	if err != nil {
		return dataset.Table{}, err
	}

	l.logger.Info("Loaded data file",
		slog.String("path", path),
		slog.Int("rows", t.Len()),
		slog.Int("columns", len(t.Columns())))
	return t, nil
}

// LoadReader parses delimited text with a header row into a table. Every
// non-missing cell is kept as text; Clean assigns types.
func (l *Loader) LoadReader(r io.Reader) (dataset.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return dataset.Table{}, apperrors.NewLoadError("error loading CSV file", err)
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(l.missing),
		dataframe.WithDelimiter(l.delimiter),
	)
	if df.Err != nil {
		if header, ok := l.headerOnly(data); ok {
			return l.emptyTable(header)
		}
		return dataset.Table{}, apperrors.NewLoadError("error loading CSV file", df.Err)
	}

	columns := df.Names()
	rows := make([][]any, df.Nrow())
	for i := range rows {
		rows[i] = make([]any, len(columns))
	}
	for j, name := range columns {
		col := df.Col(name)
		values := col.Records()
		missing := col.IsNaN()
		for i := range rows {
			if missing[i] {
				continue
			}
			rows[i][j] = values[i]
		}
	}

	t, err := dataset.New(columns, rows)
	if err != nil {
		return dataset.Table{}, apperrors.NewLoadError("error loading CSV file", err)
	}
	return t, nil
}

// headerOnly reports whether data holds a header line and no records, and
// returns that header.
func (l *Loader) headerOnly(data []byte) ([]string, bool) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = l.delimiter
	header, err := cr.Read()
	if err != nil {
		return nil, false
	}
	if _, err := cr.Read(); err != io.EOF {
		return nil, false
	}
	return header, true
}

func (l *Loader) emptyTable(header []string) (dataset.Table, error) {
	t, err := dataset.New(header, nil)
	if err != nil {
		return dataset.Table{}, apperrors.NewLoadError("error loading CSV file", err)
	}
	l.logger.Warn("Input has a header but no rows", slog.Any("columns", header))
	return t, nil
}

// Validate checks that every required column is present and drops rows that
// have a missing value in any column.
func (l *Loader) Validate(t dataset.Table) (dataset.Table, error) {
	if missing := t.Missing(l.required...); len(missing) > 0 {
		l.logger.Error("Required columns missing",
			slog.Any("missing", missing),
			slog.Any("columns", t.Columns()))
		return dataset.Table{}, apperrors.NewValidationError(
			fmt.Sprintf("Missing required columns: %v", missing), missing...)
	}

	valid := t.Filter(func(r dataset.Row) bool { return !r.HasMissing() })
	if dropped := t.Len() - valid.Len(); dropped > 0 {
		l.logger.Info("Dropped rows with missing values",
			slog.Int("dropped", dropped),
			slog.Int("remaining", valid.Len()))
	}
	return valid, nil
}
