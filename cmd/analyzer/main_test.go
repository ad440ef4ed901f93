package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eldaram/data-analyzer/internal/app"
	"github.com/Eldaram/data-analyzer/internal/shared/testutil"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    app.Request
		wantErr string
	}{
		{
			name: "file first",
			args: []string{"tx.csv", "--analysis", "summary", "--top_n", "3"},
			want: app.Request{FilePath: "tx.csv", Analysis: "summary", TopN: 3},
		},
		{
			name: "flags first",
			args: []string{"--plot", "pie", "--output", "pie.png", "tx.csv"},
			want: app.Request{FilePath: "tx.csv", Plot: "pie", Output: "pie.png"},
		},
		{
			name: "categories",
			args: []string{"tx.csv", "--categories", "Food,Transport"},
			want: app.Request{FilePath: "tx.csv", Categories: []string{"Food", "Transport"}},
		},
		{
			name:    "missing file",
			args:    []string{"--analysis", "summary"},
			wantErr: "file_path is required",
		},
		{
			name:    "two files",
			args:    []string{"a.csv", "b.csv"},
			wantErr: "unexpected arguments",
		},
		{
			name:    "unknown flag",
			args:    []string{"tx.csv", "--nope"},
			wantErr: "flag provided but not defined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			opts, err := parseArgs(tt.args, &stderr)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, opts.req)
		})
	}
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("ANALYZER_PATHS_BASE_DIR", t.TempDir())
	t.Setenv("ANALYZER_LOGGING_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Summary(t *testing.T) {
	input := testutil.WriteFile(t, "tx.csv", testutil.TransactionsCSV)

	code, stdout, stderr := runCLI(t, input, "--analysis", "summary")
	assert.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "Analysis Result:")
	assert.Contains(t, stdout, "Transport")
}

func TestRun_SavesAnalysisAndChart(t *testing.T) {
	input := testutil.WriteFile(t, "tx.csv", testutil.TransactionsCSV)
	dir := t.TempDir()
	table := filepath.Join(dir, "top.csv")
	chart := filepath.Join(dir, "bar.png")

	code, stdout, stderr := runCLI(t, input,
		"--analysis", "category", "--top_n", "2",
		"--plot", "bar", "--output", table, "--plot-output", chart)
	require.Equal(t, exitOK, code, stderr)

	data, err := os.ReadFile(table)
	require.NoError(t, err)
	assert.Equal(t, "category,amount\nFood,300\nTransport,125\n", string(data))
	assert.FileExists(t, chart)
	assert.Contains(t, stdout, "Visualization saved to "+chart)
}

func TestRun_LogFileInLogsDir(t *testing.T) {
	input := testutil.WriteFile(t, "tx.csv", testutil.TransactionsCSV)
	base := t.TempDir()
	t.Setenv("ANALYZER_PATHS_BASE_DIR", base)
	t.Setenv("ANALYZER_PATHS_LOGS_DIR", "var/log")
	t.Setenv("ANALYZER_LOGGING_OUTPUT", "file")
	t.Setenv("ANALYZER_LOGGING_LEVEL", "info")

	var stdout, stderr bytes.Buffer
	code := run([]string{input, "--analysis", "summary"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	data, err := os.ReadFile(filepath.Join(base, "var", "log", "analyzer.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Run completed")
	assert.NotContains(t, stderr.String(), "Run completed")
}

func TestRun_ExitCodes(t *testing.T) {
	input := testutil.WriteFile(t, "tx.csv", testutil.TransactionsCSV)

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStderr string
	}{
		{"help", []string{"-h"}, exitOK, "Usage: analyzer"},
		{"no file", nil, exitUsage, "file_path is required"},
		{"bad analysis", []string{input, "--analysis", "median"}, exitUsage, "invalid analysis"},
		{"time series without dates", []string{input, "--analysis", "time-series"}, exitUsage, "--start_date and --end_date are required"},
		{"missing input", []string{filepath.Join(t.TempDir(), "nope.csv")}, exitError, "does not exist"},
		{"unknown column", []string{input, "--analysis", "summary", "--value_column", "value"}, exitError, "'value' not found"},
		{"missing config", []string{input, "--config", filepath.Join(t.TempDir(), "nope.yaml")}, exitError, "Error:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stderr, tt.wantStderr)
			if tt.wantCode != exitOK {
				assert.NotContains(t, stdout, "Analysis Result:")
			}
		})
	}
}
