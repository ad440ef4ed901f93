// Command analyzer loads a transactions file, runs one analysis and renders
// one chart.
//
//	analyzer data.csv --analysis summary --plot bar --output summary.csv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Eldaram/data-analyzer/internal/app"
	"github.com/Eldaram/data-analyzer/internal/config"
	"github.com/Eldaram/data-analyzer/internal/infrastructure"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type options struct {
	configPath string
	logLevel   string
	categories string
	req        app.Request
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("analyzer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: analyzer [flags] file_path")
		fs.PrintDefaults()
	}

	r := &opts.req
	fs.StringVar(&r.Analysis, "analysis", "", "type of analysis to perform ("+strings.Join(app.Analyses, ", ")+")")
	fs.StringVar(&r.Plot, "plot", "", "type of plot to generate ("+strings.Join(app.Plots, ", ")+")")
	fs.StringVar(&r.Output, "output", "", "path to save the analysis or plot result (.csv or .xlsx for tables)")
	fs.StringVar(&r.PlotOutput, "plot-output", "", "path to save the plot when --output holds the analysis")
	fs.StringVar(&r.StartDate, "start_date", "", "start date for time-series analysis (YYYY-MM-DD)")
	fs.StringVar(&r.EndDate, "end_date", "", "end date for time-series analysis (YYYY-MM-DD)")
	fs.StringVar(&r.CategoryColumn, "category_column", "", "column name for category-based analysis (default: 'category')")
	fs.StringVar(&r.ValueColumn, "value_column", "", "column name for value-based analysis (default: 'amount')")
	fs.IntVar(&r.TopN, "top_n", 0, "number of top categories to display (default: 5)")
	fs.IntVar(&r.Bins, "bins", 0, "number of bins for the distribution analysis (default: 10)")
	fs.StringVar(&opts.categories, "categories", "", "comma separated categories to keep")
	fs.StringVar(&opts.configPath, "config", "", "path to a YAML configuration file")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	return fs
}

// parseArgs accepts flags before and after the positional file path
func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := newFlagSet(opts, stderr)

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}

	switch len(positional) {
	case 0:
		fs.Usage()
		return nil, fmt.Errorf("%w: file_path is required", app.ErrUsage)
	case 1:
		opts.req.FilePath = positional[0]
	default:
		return nil, fmt.Errorf("%w: unexpected arguments %v", app.ErrUsage, positional[1:])
	}
	opts.req.Categories = app.ParseCategories(opts.categories)
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	// a bare log file name lands in the logs directory
	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	cfg.Logging.FilePath = paths.GetLogPath(cfg.Logging.FilePath)

	logger, logFile, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if logFile != nil {
		defer logFile.Close()
	}
	slog.SetDefault(logger)

	a, err := app.New(cfg, app.WithLogger(logger), app.WithOutput(stdout))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	ctx := context.Background()
	_, runErr := a.Run(ctx, opts.req)
	if err := a.Close(ctx); err != nil {
		logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
	}

	if runErr != nil {
		fmt.Fprintf(stderr, "Error: %v\n", runErr)
		if errors.Is(runErr, app.ErrUsage) {
			return exitUsage
		}
		return exitError
	}
	return exitOK
}
