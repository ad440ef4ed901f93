package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Eldaram/data-analyzer/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Equal(t, []string{"date", "category", "amount", "customer_id"}, cfg.Loader.RequiredColumns)
				assert.Equal(t, "2006-01-02", cfg.Loader.DateLayout)
				assert.Equal(t, ',', cfg.Loader.DelimiterRune())
				assert.Equal(t, 5, cfg.Analysis.TopN)
				assert.Equal(t, 10, cfg.Analysis.Bins)
				assert.Equal(t, "coolwarm", cfg.Charts.Colormap)
				assert.False(t, cfg.Telemetry.Enabled)
				assert.False(t, cfg.Export.BOM)
				assert.Equal(t, ',', cfg.Export.DelimiterRune())
				assert.Equal(t, "Analysis", cfg.Export.Sheet)
				assert.Equal(t, "analyzer.log", cfg.Logging.FilePath)
			},
		},
		{
			name: "file overrides defaults",
			file: `
logging:
  level: debug
analysis:
  top_n: 3
charts:
  colormap: viridis
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, 3, cfg.Analysis.TopN)
				assert.Equal(t, "viridis", cfg.Charts.Colormap)
				assert.Equal(t, 10, cfg.Analysis.Bins, "keys absent from the file keep defaults")
			},
		},
		{
			name: "env overrides file",
			file: "analysis:\n  top_n: 3\n",
			env: map[string]string{
				"ANALYZER_ANALYSIS_TOP_N":          "7",
				"ANALYZER_LOADER_REQUIRED_COLUMNS": "date,value",
				"ANALYZER_LOADER_DELIMITER":        ";",
				"ANALYZER_TELEMETRY_ENABLED":       "true",
				"ANALYZER_CHARTS_FONT_SIZE":        "12.5",
				"ANALYZER_EXPORT_BOM":              "true",
				"ANALYZER_EXPORT_DELIMITER":        "|",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7, cfg.Analysis.TopN)
				assert.Equal(t, []string{"date", "value"}, cfg.Loader.RequiredColumns)
				assert.Equal(t, ';', cfg.Loader.DelimiterRune())
				assert.True(t, cfg.Telemetry.Enabled)
				assert.Equal(t, 12.5, cfg.Charts.FontSize)
				assert.True(t, cfg.Export.BOM)
				assert.Equal(t, '|', cfg.Export.DelimiterRune())
			},
		},
		{
			name: "export section from file",
			file: "export:\n  bom: true\n  delimiter: \";\"\n  sheet: Totals\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Export.BOM)
				assert.Equal(t, ';', cfg.Export.DelimiterRune())
				assert.Equal(t, "Totals", cfg.Export.Sheet)
			},
		},
		{
			name:    "unknown file key",
			file:    "loging:\n  level: debug\n",
			wantErr: "failed to parse config file",
		},
		{
			name:    "invalid env value",
			env:     map[string]string{"ANALYZER_ANALYSIS_BINS": "many"},
			wantErr: "failed to load config from env",
		},
		{
			name:    "validation failure",
			env:     map[string]string{"ANALYZER_ANALYSIS_BINS": "0"},
			wantErr: "analysis.bins must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default is valid", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level must be one of: debug, info, warn, error"},
		{"file output needs path", func(c *Config) {
			c.Logging.Output = "file"
			c.Logging.FilePath = ""
		}, "logging.file_path is required"},
		{"bad delimiter", func(c *Config) { c.Loader.Delimiter = ";;" }, "loader.delimiter must be exactly 1 characters"},
		{"bad export delimiter", func(c *Config) { c.Export.Delimiter = "" }, "export.delimiter must be exactly 1 characters"},
		{"long sheet name", func(c *Config) { c.Export.Sheet = strings.Repeat("s", 32) }, "export.sheet must be at most 31"},
		{"bad date layout", func(c *Config) { c.Loader.DateLayout = "yyyy-mm-dd" }, "loader.date_layout must be a Go date layout"},
		{"empty required column", func(c *Config) { c.Loader.RequiredColumns = []string{"date", ""} }, "is required"},
		{"unknown colormap", func(c *Config) { c.Charts.Colormap = "rainbow" }, "charts.colormap must be one of"},
		{"tiny chart", func(c *Config) { c.Charts.Width = 10 }, "charts.width must be at least 100"},
		{"zero top_n", func(c *Config) { c.Analysis.TopN = 0 }, "analysis.top_n must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDateLayoutValidator(t *testing.T) {
	cfg := Default()
	for _, layout := range []string{"2006-01-02", "02/01/2006", "Jan 2, 2006", "20060102"} {
		cfg.Loader.DateLayout = layout
		assert.NoError(t, cfg.Validate(), layout)
	}
	cfg.Loader.DateLayout = "15:04"
	assert.Error(t, cfg.Validate(), "a layout without a date is rejected")
}
