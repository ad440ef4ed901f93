package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Eldaram/data-analyzer/internal/analyzer"
	"github.com/Eldaram/data-analyzer/internal/config"
	"github.com/Eldaram/data-analyzer/internal/dataset"
	"github.com/Eldaram/data-analyzer/internal/exporter"
	"github.com/Eldaram/data-analyzer/internal/infrastructure"
	"github.com/Eldaram/data-analyzer/internal/loader"
	"github.com/Eldaram/data-analyzer/internal/validation"
	"github.com/Eldaram/data-analyzer/internal/visualizer"
)

// App runs analyzer invocations for one configuration
type App struct {
	cfg     *config.Config
	paths   *config.Paths
	logger  *slog.Logger
	out     io.Writer
	files   *validation.FileValidator
	otel    *infrastructure.OTelProviders
	tracer  *runTracer
	metrics *infrastructure.RunMetrics
}

// Option configures an App
type Option func(*App)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithOutput sets where reports and status lines are printed
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		if w != nil {
			a.out = w
		}
	}
}

// New prepares an App: resolves the output directories and starts telemetry
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{
		cfg:    cfg,
		logger: slog.Default(),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = infrastructure.WithComponent(a.logger, "app")
	a.files = validation.NewFileValidator(a.logger)

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		return nil, err
	}
	paths.LogPathResolution(a.logger)
	a.paths = paths

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	metrics, err := infrastructure.CreateRunMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create run metrics: %w", err)
	}
	a.otel = providers
	a.metrics = metrics
	a.tracer = &runTracer{tracer: providers.Tracer, metrics: metrics}
	return a, nil
}

// Paths returns the resolved output directories
func (a *App) Paths() *config.Paths {
	return a.paths
}

// Result reports what a run produced
type Result struct {
	RunID string
	// Rows is the row count after cleaning and filtering
	Rows int
	// Analysis is nil when no analysis was requested
	Analysis     *dataset.Table
	AnalysisPath string
	Chart        *visualizer.Chart
	ChartPath    string
}

// Run executes req. Usage problems are reported before the input is read
// and wrap ErrUsage.
func (a *App) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.withDefaults(a.cfg.Analysis)

	ctx = infrastructure.EnsureTraceID(ctx)
	res := &Result{RunID: infrastructure.GetTraceID(ctx)}

	ctx, span := a.tracer.traceRun(ctx, res.RunID, req)
	defer span.End()

	start := time.Now()
	a.logger.InfoContext(ctx, "Run started",
		slog.String("file", req.FilePath),
		slog.String("analysis", req.Analysis),
		slog.String("plot", req.Plot))

	err := a.run(ctx, req, res)
	a.tracer.recordCompletion(span, time.Since(start), res.Rows, err)
	if err != nil {
		infrastructure.WithError(a.logger, err).ErrorContext(ctx, "Run failed",
			slog.String("error_type", infrastructure.ErrorType(err)))
		return res, err
	}

	a.logger.InfoContext(ctx, "Run completed",
		slog.Int("rows", res.Rows),
		slog.Duration("duration", time.Since(start)))
	return res, nil
}

func (a *App) run(ctx context.Context, req Request, res *Result) error {
	if err := a.checkOutputs(req); err != nil {
		return err
	}
	l := a.newLoader()

	table, err := a.prepare(ctx, l, req)
	if err != nil {
		return err
	}
	res.Rows = table.Len()

	if req.Analysis != "" {
		if err := a.analyze(ctx, table, req, res); err != nil {
			return err
		}
	}

	if req.Plot != "" {
		if err := a.plot(ctx, table, req, res); err != nil {
			return err
		}
	}

	if req.Analysis == "" && req.Plot == "" {
		a.logger.InfoContext(ctx, "No analysis or plot requested", slog.Int("rows", res.Rows))
	}
	return nil
}

func (a *App) newLoader() *loader.Loader {
	opts := []loader.Option{
		loader.WithDateLayout(a.cfg.Loader.DateLayout),
		loader.WithDelimiter(a.cfg.Loader.DelimiterRune()),
		loader.WithSheet(a.cfg.Loader.Sheet),
		loader.WithLogger(infrastructure.WithComponent(a.logger, "loader")),
	}
	if len(a.cfg.Loader.MissingMarkers) > 0 {
		opts = append(opts, loader.WithMissingMarkers(a.cfg.Loader.MissingMarkers))
	}
	return loader.NewLoader(a.cfg.Loader.RequiredColumns, opts...)
}

// prepare loads, validates, cleans and filters the input table
func (a *App) prepare(ctx context.Context, l *loader.Loader, req Request) (dataset.Table, error) {
	var table dataset.Table

	steps := []struct {
		name string
		fn   func(dataset.Table) (dataset.Table, error)
		skip bool
	}{
		{
			name: "load",
			fn: func(dataset.Table) (dataset.Table, error) {
				if err := a.files.ValidateInputFile(req.FilePath); err != nil {
					return dataset.Table{}, err
				}
				return l.Load(req.FilePath)
			},
		},
		{name: "validate", fn: l.Validate},
		{name: "clean", fn: l.Clean},
		{
			name: "filter_dates",
			fn: func(t dataset.Table) (dataset.Table, error) {
				return l.FilterByDateRange(t, req.StartDate, req.EndDate)
			},
			skip: req.StartDate == "" || req.EndDate == "",
		},
		{
			name: "filter_categories",
			fn: func(t dataset.Table) (dataset.Table, error) {
				return l.FilterByCategories(t, req.CategoryColumn, req.Categories)
			},
			skip: len(req.Categories) == 0,
		},
	}

	if (req.StartDate == "") != (req.EndDate == "") {
		a.logger.WarnContext(ctx, "Date filter needs both start and end date, ignoring",
			slog.String("start_date", req.StartDate),
			slog.String("end_date", req.EndDate))
	}

	for i, step := range steps {
		if step.skip {
			continue
		}
		before := table.Len()
		err := a.tracer.stage(ctx, step.name, func(ctx context.Context) error {
			out, err := step.fn(table)
			if err != nil {
				return err
			}
			table = out
			infrastructure.SetSpanAttributes(ctx, map[string]interface{}{"rows": out.Len()})
			return nil
		})
		if err != nil {
			return dataset.Table{}, err
		}

		if i == 0 {
			a.metrics.RecordRows(ctx, table.Len())
			a.logger.DebugContext(ctx, "Input loaded",
				slog.Int("rows", table.Len()),
				slog.Any("columns", table.Columns()))
			continue
		}
		a.metrics.RecordDropped(ctx, step.name, before-table.Len())
	}
	return table, nil
}

func (a *App) analyze(ctx context.Context, table dataset.Table, req Request, res *Result) error {
	an := analyzer.New(table,
		analyzer.WithDateLayout(a.cfg.Loader.DateLayout),
		analyzer.WithLogger(infrastructure.WithComponent(a.logger, "analyzer")))

	var result dataset.Table
	err := a.tracer.stage(ctx, "analyze", func(ctx context.Context) error {
		infrastructure.SetSpanAttributes(ctx, map[string]interface{}{"analysis": req.Analysis})
		var err error
		switch req.Analysis {
		case AnalysisSummary:
			result, err = an.SummaryStatistics(req.CategoryColumn, req.ValueColumn)
		case AnalysisTimeSeries:
			result, err = an.TimeSeriesAnalysis(a.cfg.Analysis.DateColumn, req.ValueColumn)
		case AnalysisCategory:
			result, err = an.TopSpendingCategories(req.CategoryColumn, req.ValueColumn, req.TopN)
		case AnalysisSegmentation:
			result, err = an.CustomerSegmentation(a.cfg.Analysis.CustomerColumn, req.ValueColumn)
		case AnalysisDistribution:
			result, err = an.SpendingDistribution(req.ValueColumn, req.Bins)
		default:
			err = usageError("invalid analysis %q", req.Analysis)
		}
		return err
	})
	a.metrics.RecordAnalysis(ctx, req.Analysis, err)
	if err != nil {
		return err
	}
	res.Analysis = &result

	fmt.Fprintln(a.out, "Analysis Result:")
	fmt.Fprint(a.out, result.String())

	if req.Output == "" {
		return nil
	}
	return a.tracer.stage(ctx, "export", func(ctx context.Context) error {
		path, err := exporter.WriteTable(req.Output, result, a.paths, a.cfg.Export, infrastructure.WithComponent(a.logger, "exporter"))
		if err != nil {
			return err
		}
		res.AnalysisPath = path
		fmt.Fprintf(a.out, "Analysis result saved to %s\n", path)
		return nil
	})
}

func (a *App) plot(ctx context.Context, table dataset.Table, req Request, res *Result) error {
	style := a.cfg.Charts
	viz := visualizer.New(
		visualizer.WithStyle(visualizer.Style{
			Width:    style.Width,
			Height:   style.Height,
			PieSize:  style.PieSize,
			FontSize: style.FontSize,
			Color:    style.Color,
			Colormap: style.Colormap,
		}),
		visualizer.WithLogger(infrastructure.WithComponent(a.logger, "visualizer")))

	opts := visualizer.Options{SavePath: a.chartPath(req)}

	var c *visualizer.Chart
	err := a.tracer.stage(ctx, "plot", func(ctx context.Context) error {
		infrastructure.SetSpanAttributes(ctx, map[string]interface{}{"plot": req.Plot, "save_path": opts.SavePath})
		var err error
		switch req.Plot {
		case PlotBar:
			opts.Title = "Bar Chart"
			c, err = viz.BarChart(table, req.CategoryColumn, req.ValueColumn, opts)
		case PlotLine:
			opts.Title = "Line Chart"
			c, err = viz.LineChart(table, a.cfg.Analysis.DateColumn, req.ValueColumn, opts)
		case PlotPie:
			opts.Title = "Pie Chart"
			c, err = viz.PieChart(table, req.ValueColumn, req.CategoryColumn, opts)
		case PlotHeatmap:
			opts.Title = "Heatmap"
			c, err = viz.Heatmap(table, opts)
		default:
			err = usageError("invalid plot %q", req.Plot)
		}
		return err
	})
	a.metrics.RecordChart(ctx, req.Plot, err)
	if err != nil {
		return err
	}
	res.Chart = c
	res.ChartPath = opts.SavePath

	fmt.Fprintln(a.out, "Visualization generated successfully.")
	if opts.SavePath != "" {
		fmt.Fprintf(a.out, "Visualization saved to %s\n", opts.SavePath)
	}
	return nil
}

// checkOutputs fails fast on output locations that cannot be written
func (a *App) checkOutputs(req Request) error {
	if req.Analysis != "" && req.Output != "" {
		if err := a.files.ValidateOutputPath(a.paths.GetReportPath(req.Output)); err != nil {
			return err
		}
	}
	if req.Plot != "" {
		if path := a.chartPath(req); path != "" {
			return a.files.ValidateOutputPath(path)
		}
	}
	return nil
}

// chartPath picks where the chart goes. --plot-output wins; otherwise
// --output is used, switched to a .png extension when the analysis table
// is also written there.
func (a *App) chartPath(req Request) string {
	path := req.PlotOutput
	if path == "" {
		path = req.Output
		if path != "" && req.Analysis != "" {
			path = strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
		}
	}
	if path == "" {
		return ""
	}
	return a.paths.GetChartPath(path)
}

// Close flushes telemetry and writes the metrics file when configured
func (a *App) Close(ctx context.Context) error {
	var err error
	if file := a.cfg.Telemetry.MetricsFile; file != "" {
		err = a.otel.WriteMetrics(a.paths.GetReportPath(file))
	}
	if shutdownErr := a.otel.Shutdown(ctx); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	return err
}
