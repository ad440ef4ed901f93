package loader

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Eldaram/data-analyzer/internal/dataset"
	apperrors "github.com/Eldaram/data-analyzer/internal/errors"
	"github.com/Eldaram/data-analyzer/internal/shared/testutil"
)

func newTestLoader(t *testing.T, required ...string) (*Loader, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, h := testutil.NewTestLogger(t)
	return NewLoader(required, WithLogger(logger)), h
}

func TestLoader_Load(t *testing.T) {
	path := testutil.WriteFile(t, "data.csv", `date,category,value
2025-04-01,Food,100
2025-04-02,Transport,50
2025-04-03,Food,200
2025-04-04,Entertainment,75
`)
	l, h := newTestLoader(t, "date", "category", "value")

	tbl, err := l.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, []string{"date", "category", "value"}, tbl.Columns())
	assert.Equal(t, "100", tbl.Value(0, "value"))
	testutil.AssertLogContains(t, h, slog.LevelInfo, "Loaded data file")
}

func TestLoader_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"ragged row", "a,b\n1,2,3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLoader(t)
			_, err := l.LoadReader(strings.NewReader(tt.content))
			require.Error(t, err)
			assert.True(t, apperrors.IsLoadError(err))
		})
	}

	t.Run("missing file", func(t *testing.T) {
		l, _ := newTestLoader(t)
		_, err := l.Load("/nonexistent/data.csv")
		require.Error(t, err)
		assert.True(t, apperrors.IsLoadError(err))
	})
}

func TestLoader_LoadReader_HeaderOnly(t *testing.T) {
	l, h := newTestLoader(t, "date", "category", "value")

	tbl, err := l.LoadReader(strings.NewReader("date,amount\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, []string{"date", "amount"}, tbl.Columns())
	testutil.AssertLogContains(t, h, slog.LevelWarn, "Input has a header but no rows")

	_, err = l.Validate(tbl)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, []string{"category", "value"}, apperrors.Columns(err))

	semicolon := NewLoader(nil, WithDelimiter(';'))
	tbl, err = semicolon.LoadReader(strings.NewReader("a;b"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Columns())
}

func TestLoader_LoadReader_MissingMarkersAndDelimiter(t *testing.T) {
	l := NewLoader(nil, WithDelimiter(';'), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	tbl, err := l.LoadReader(strings.NewReader("a;b\nx;NA\n;2\n"))
	require.NoError(t, err)

	assert.Nil(t, tbl.Value(0, "b"))
	assert.Nil(t, tbl.Value(1, "a"))
	assert.Equal(t, "2", tbl.Value(1, "b"))
}

func TestLoader_WithMissingMarkers_NaNAlwaysMissing(t *testing.T) {
	l := NewLoader(nil, WithMissingMarkers([]string{"?"}), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	tbl, err := l.LoadReader(strings.NewReader("a,b\nNaN,1\n?,2\nNA,3\n"))
	require.NoError(t, err)

	assert.Nil(t, tbl.Value(0, "a"))
	assert.Nil(t, tbl.Value(1, "a"))
	assert.Equal(t, "NA", tbl.Value(2, "a"))
}

func TestLoader_Validate(t *testing.T) {
	l, _ := newTestLoader(t, "date", "category", "value")

	t.Run("drops rows with missing values", func(t *testing.T) {
		tbl := dataset.MustNew([]string{"date", "category", "value"}, [][]any{
			{"2025-04-01", "Food", "100"},
			{"2025-04-02", nil, "50"},
			{"2025-04-03", "Food", "200"},
		})

		valid, err := l.Validate(tbl)
		require.NoError(t, err)
		assert.Equal(t, 2, valid.Len())
		assert.Equal(t, 3, tbl.Len())
	})

	t.Run("missing required column", func(t *testing.T) {
		tbl := dataset.MustNew([]string{"date", "category"}, [][]any{{"2025-04-01", "Food"}})

		_, err := l.Validate(tbl)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidationError(err))
		assert.Equal(t, []string{"value"}, apperrors.Columns(err))
		assert.Contains(t, err.Error(), "value")
	})
}

func TestLoader_Clean(t *testing.T) {
	l, _ := newTestLoader(t)
	tbl := dataset.MustNew([]string{"date", "category", "value", "note"}, [][]any{
		{"2025-04-01", "Food", "100", "a"},
		{"invalid_date", "Food", "20", "b"},
		{"2025-04-02", "Transport", "50", "c"},
		{nil, "Food", "10", "d"},
		{"2025-04-03", "Food", "200", "e"},
		{"2025-04-04", "Entertainment", "75", "f"},
	})

	cleaned, err := l.Clean(tbl)
	require.NoError(t, err)

	assert.Equal(t, 4, cleaned.Len())
	assert.Equal(t, dataset.KindDate, cleaned.Kind("date"))
	assert.Equal(t, dataset.KindNumber, cleaned.Kind("value"))
	assert.Equal(t, dataset.KindText, cleaned.Kind("note"))
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), cleaned.Value(0, "date"))
	assert.Equal(t, 50.0, cleaned.Value(1, "value"))

	assert.Equal(t, 6, tbl.Len(), "input table must not change")
}

func TestLoader_Clean_MixedColumnStaysText(t *testing.T) {
	l, _ := newTestLoader(t)
	tbl := dataset.MustNew([]string{"date", "value"}, [][]any{
		{"2025-04-01", "10"},
		{"2025-04-02", "abc"},
	})

	cleaned, err := l.Clean(tbl)
	require.NoError(t, err)
	assert.Equal(t, dataset.KindText, cleaned.Kind("value"))
}

func TestLoader_Clean_CustomLayout(t *testing.T) {
	l := NewLoader(nil, WithDateLayout("02/01/2006"), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	tbl := dataset.MustNew([]string{"date"}, [][]any{{"15/04/2025"}, {"2025-04-15"}})

	cleaned, err := l.Clean(tbl)
	require.NoError(t, err)
	require.Equal(t, 1, cleaned.Len())
	assert.Equal(t, time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC), cleaned.Value(0, "date"))
}

func cleanedSample(t *testing.T, l *Loader) dataset.Table {
	t.Helper()
	tbl, err := l.LoadReader(strings.NewReader(testutil.TransactionsCSV))
	require.NoError(t, err)
	tbl, err = l.Clean(tbl)
	require.NoError(t, err)
	return tbl
}

func TestLoader_FilterByDateRange(t *testing.T) {
	l, _ := newTestLoader(t)
	tbl := cleanedSample(t, l)

	filtered, err := l.FilterByDateRange(tbl, "2025-04-02", "2025-04-03")
	require.NoError(t, err)
	assert.Equal(t, 2, filtered.Len())

	empty, err := l.FilterByDateRange(tbl, "2030-01-01", "2030-12-31")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	_, err = l.FilterByDateRange(tbl, "04/02/2025", "2025-04-03")
	assert.True(t, apperrors.IsValidationError(err))

	noDate := dataset.MustNew([]string{"category"}, [][]any{{"Food"}})
	_, err = l.FilterByDateRange(noDate, "2025-04-01", "2025-04-03")
	assert.True(t, apperrors.IsSchemaError(err))
}

func TestLoader_FilterByCategories(t *testing.T) {
	l, _ := newTestLoader(t)
	tbl := cleanedSample(t, l)

	food, err := l.FilterByCategories(tbl, "category", []string{"Food"})
	require.NoError(t, err)
	assert.Equal(t, 2, food.Len())

	none, err := l.FilterByCategories(tbl, "category", []string{"Travel"})
	require.NoError(t, err)
	assert.Equal(t, 0, none.Len())

	noCat := dataset.MustNew([]string{"amount"}, [][]any{{1}})
	_, err = l.FilterByCategories(noCat, "category", []string{"Food"})
	assert.True(t, apperrors.IsSchemaError(err))
}

func TestLoader_LoadWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"date", "category", "amount", "customer_id"},
		{"2025-04-01", "Food", "100", "C1"},
		{"2025-04-02", "Transport", "N/A", "C2"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := t.TempDir() + "/data.xlsx"
	require.NoError(t, f.SaveAs(path))

	l, _ := newTestLoader(t, DefaultRequiredColumns...)
	tbl, err := l.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, "Food", tbl.Value(0, "category"))
	assert.Nil(t, tbl.Value(1, "amount"))

	valid, err := l.Validate(tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, valid.Len())
}
