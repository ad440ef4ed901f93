package app

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Eldaram/data-analyzer/internal/config"
)

// ErrUsage marks errors caused by invalid invocation arguments
var ErrUsage = errors.New("usage error")

const (
	AnalysisSummary      = "summary"
	AnalysisTimeSeries   = "time-series"
	AnalysisCategory     = "category"
	AnalysisSegmentation = "segmentation"
	AnalysisDistribution = "distribution"
)

const (
	PlotBar     = "bar"
	PlotLine    = "line"
	PlotPie     = "pie"
	PlotHeatmap = "heatmap"
)

// Analyses lists the accepted analysis names
var Analyses = []string{AnalysisSummary, AnalysisTimeSeries, AnalysisCategory, AnalysisSegmentation, AnalysisDistribution}

// Plots lists the accepted plot names
var Plots = []string{PlotBar, PlotLine, PlotPie, PlotHeatmap}

// Request describes one run. Zero-valued column names, TopN and Bins fall
// back to the analysis configuration.
type Request struct {
	FilePath   string
	Analysis   string
	Plot       string
	Output     string
	PlotOutput string
	StartDate  string
	EndDate    string

	CategoryColumn string
	ValueColumn    string
	TopN           int
	Bins           int
	Categories     []string
}

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// Validate checks the request arguments before any data is read
func (r Request) Validate() error {
	if r.FilePath == "" {
		return usageError("file path is required")
	}
	if r.Analysis != "" && !slices.Contains(Analyses, r.Analysis) {
		return usageError("invalid analysis %q (choose from %s)", r.Analysis, strings.Join(Analyses, ", "))
	}
	if r.Plot != "" && !slices.Contains(Plots, r.Plot) {
		return usageError("invalid plot %q (choose from %s)", r.Plot, strings.Join(Plots, ", "))
	}
	if r.Analysis == AnalysisTimeSeries && (r.StartDate == "" || r.EndDate == "") {
		return usageError("--start_date and --end_date are required for time-series analysis")
	}
	if r.TopN < 0 {
		return usageError("--top_n must not be negative")
	}
	if r.Bins < 0 {
		return usageError("--bins must not be negative")
	}
	return nil
}

// withDefaults fills unset fields from cfg
func (r Request) withDefaults(cfg config.AnalysisConfig) Request {
	if r.CategoryColumn == "" {
		r.CategoryColumn = cfg.CategoryColumn
	}
	if r.ValueColumn == "" {
		r.ValueColumn = cfg.ValueColumn
	}
	if r.TopN == 0 {
		r.TopN = cfg.TopN
	}
	if r.Bins == 0 {
		r.Bins = cfg.Bins
	}
	return r
}

// ParseCategories splits a comma separated list, dropping blanks
func ParseCategories(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
