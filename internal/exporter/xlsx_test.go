package exporter

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Eldaram/data-analyzer/internal/dataset"
)

func TestXLSXWriter_WriteTable(t *testing.T) {
	paths := setupPaths(t)
	writer := NewXLSXWriter(paths, nil)

	tbl := dataset.MustNew([]string{"date", "Total Spending", "Transaction Count"}, [][]any{
		{time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), 100.0, 1.0},
		{time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), 50.5, 1.0},
		{nil, 75.0, 1.0},
	})

	path, err := writer.WriteTable("series.xlsx", tbl)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(paths.ReportsDir, "series.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, DefaultSheet, f.GetSheetName(0))
	rows, err := f.GetRows(DefaultSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"date", "Total Spending", "Transaction Count"}, rows[0])
	assert.Equal(t, []string{"2025-04-02", "50.5", "1"}, rows[2])
	assert.Equal(t, []string{"", "75", "1"}, rows[3])

	cellType, err := f.GetCellType(DefaultSheet, "B2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)
}

func TestXLSXWriter_CustomSheet(t *testing.T) {
	writer := NewXLSXWriter(nil, nil)
	writer.Sheet = "Summary"

	path, err := writer.WriteTable(filepath.Join(t.TempDir(), "s.xlsx"), summaryTable())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "Summary", f.GetSheetName(0))
	v, err := f.GetCellValue("Summary", "C3")
	require.NoError(t, err)
	assert.Empty(t, v, "NaN is written as an empty cell")
}
