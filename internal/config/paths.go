package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved output directories of a run
type Paths struct {
	BaseDir    string
	ReportsDir string
	ChartsDir  string
	LogsDir    string
}

// NewPaths resolves cfg against its base directory. An empty base directory
// means the current working directory.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	resolve := func(dir string) string {
		if filepath.IsAbs(dir) {
			return filepath.Clean(dir)
		}
		return filepath.Join(base, dir)
	}

	return &Paths{
		BaseDir:    base,
		ReportsDir: resolve(cfg.ReportsDir),
		ChartsDir:  resolve(cfg.ChartsDir),
		LogsDir:    resolve(cfg.LogsDir),
	}, nil
}

// GetReportPath returns the path for an analysis report file
func (p *Paths) GetReportPath(filename string) string {
	return p.resolve(p.ReportsDir, filename)
}

// GetChartPath returns the path for a chart image
func (p *Paths) GetChartPath(filename string) string {
	return p.resolve(p.ChartsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return p.resolve(p.LogsDir, filename)
}

// resolve places bare file names in dir. Absolute paths and paths that
// already name a directory are used as given.
func (p *Paths) resolve(dir, name string) string {
	if filepath.IsAbs(name) || filepath.Base(name) != name {
		return name
	}
	return filepath.Join(dir, name)
}

// LogPathResolution logs the resolved directories
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("reports", p.ReportsDir),
			slog.String("charts", p.ChartsDir),
			slog.String("logs", p.LogsDir),
		))
}
