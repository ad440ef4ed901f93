package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "github.com/Eldaram/data-analyzer/internal/errors"
)

// EnvPrefix namespaces every environment override, e.g. ANALYZER_LOGGING_LEVEL
const EnvPrefix = "ANALYZER"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Loader    LoaderConfig    `yaml:"loader" envconfig:"LOADER"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Charts    ChartsConfig    `yaml:"charts" envconfig:"CHARTS"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// LoaderConfig controls how input files are read and cleaned
type LoaderConfig struct {
	RequiredColumns []string `yaml:"required_columns" envconfig:"REQUIRED_COLUMNS" validate:"dive,required"`
	DateLayout      string   `yaml:"date_layout" envconfig:"DATE_LAYOUT" validate:"required,datelayout"`
	Delimiter       string   `yaml:"delimiter" envconfig:"DELIMITER" validate:"len=1"`
	MissingMarkers  []string `yaml:"missing_markers" envconfig:"MISSING_MARKERS"`
	Sheet           string   `yaml:"sheet" envconfig:"SHEET"`
}

// AnalysisConfig holds the column names and defaults the analyses run with
type AnalysisConfig struct {
	DateColumn     string `yaml:"date_column" envconfig:"DATE_COLUMN" validate:"required"`
	CategoryColumn string `yaml:"category_column" envconfig:"CATEGORY_COLUMN" validate:"required"`
	ValueColumn    string `yaml:"value_column" envconfig:"VALUE_COLUMN" validate:"required"`
	CustomerColumn string `yaml:"customer_column" envconfig:"CUSTOMER_COLUMN" validate:"required"`
	TopN           int    `yaml:"top_n" envconfig:"TOP_N" validate:"min=1"`
	Bins           int    `yaml:"bins" envconfig:"BINS" validate:"min=1"`
}

// ChartsConfig holds chart rendering defaults
type ChartsConfig struct {
	Width    int     `yaml:"width" envconfig:"WIDTH" validate:"min=100,max=10000"`
	Height   int     `yaml:"height" envconfig:"HEIGHT" validate:"min=100,max=10000"`
	PieSize  int     `yaml:"pie_size" envconfig:"PIE_SIZE" validate:"min=100,max=10000"`
	FontSize float64 `yaml:"font_size" envconfig:"FONT_SIZE" validate:"gt=0"`
	Color    string  `yaml:"color" envconfig:"COLOR" validate:"required"`
	Colormap string  `yaml:"colormap" envconfig:"COLORMAP" validate:"oneof=coolwarm blues reds greys viridis"`
}

// ExportConfig controls how result tables are written
type ExportConfig struct {
	// BOM prefixes CSV output with a UTF-8 byte order mark
	BOM       bool   `yaml:"bom" envconfig:"BOM"`
	Delimiter string `yaml:"delimiter" envconfig:"DELIMITER" validate:"len=1"`
	Sheet     string `yaml:"sheet" envconfig:"SHEET" validate:"max=31"`
}

// TelemetryConfig controls tracing and metrics for a run
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled" envconfig:"ENABLED"`
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	// TraceStdout prints finished spans to stderr
	TraceStdout bool `yaml:"trace_stdout" envconfig:"TRACE_STDOUT"`
	// MetricsFile, when set, receives the run metrics in Prometheus text format
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// PathsConfig contains output locations. Relative directories are resolved
// against BaseDir, which defaults to the working directory.
type PathsConfig struct {
	BaseDir    string `yaml:"base_dir" envconfig:"BASE_DIR"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	ChartsDir  string `yaml:"charts_dir" envconfig:"CHARTS_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "analyzer.log",
		},
		Loader: LoaderConfig{
			RequiredColumns: []string{"date", "category", "amount", "customer_id"},
			DateLayout:      "2006-01-02",
			Delimiter:       ",",
		},
		Analysis: AnalysisConfig{
			DateColumn:     "date",
			CategoryColumn: "category",
			ValueColumn:    "amount",
			CustomerColumn: "customer_id",
			TopN:           5,
			Bins:           10,
		},
		Charts: ChartsConfig{
			Width:    1000,
			Height:   600,
			PieSize:  800,
			FontSize: 10,
			Color:    "blue",
			Colormap: "coolwarm",
		},
		Export: ExportConfig{
			Delimiter: ",",
			Sheet:     "Analysis",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "data-analyzer",
		},
		Paths: PathsConfig{
			ReportsDir: ".",
			ChartsDir:  ".",
			LogsDir:    "logs",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then ANALYZER_* environment variables, and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	// no default tags: unset variables leave file and default values alone
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile overlays the YAML file at path onto c. Keys absent from the file
// keep their current values.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewConfigError("failed to read config file", err).WithContext("path", path)
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return apperrors.NewConfigError(fmt.Sprintf("failed to parse config file %s", path), err)
	}
	return nil
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	return validateStruct(c)
}

// DelimiterRune returns the loader delimiter as a rune
func (c LoaderConfig) DelimiterRune() rune {
	return firstRune(c.Delimiter)
}

// DelimiterRune returns the export delimiter as a rune
func (c ExportConfig) DelimiterRune() rune {
	return firstRune(c.Delimiter)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return ','
}
