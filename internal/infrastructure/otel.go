package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/Eldaram/data-analyzer/internal/config"
)

const (
	ServiceVersion = "1.0.0"
	MeterName      = "github.com/Eldaram/data-analyzer"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	Enabled        bool
	// TraceWriter receives finished spans as JSON; nil records spans without
	// exporting them
	TraceWriter io.Writer
}

// NewOTelConfig derives the OpenTelemetry configuration from the telemetry
// settings. Spans go to stderr when TraceStdout is set.
func NewOTelConfig(cfg config.TelemetryConfig) *OTelConfig {
	oc := &OTelConfig{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: ServiceVersion,
		Enabled:        cfg.Enabled,
	}
	if cfg.TraceStdout {
		oc.TraceWriter = os.Stderr
	}
	return oc
}

// OTelProviders holds the tracer and meter of a run. When telemetry is
// disabled both are no-ops and Registry is nil.
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *promclient.Registry
	Logger         *slog.Logger
}

// InitializeOTel sets up tracing and metrics. The providers are scoped to the
// returned value and are not installed globally.
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if logger == nil {
		logger = slog.Default()
	}
	providers := &OTelProviders{Logger: logger}

	if cfg == nil || !cfg.Enabled {
		providers.Tracer = tracenoop.NewTracerProvider().Tracer(MeterName)
		providers.Meter = metricnoop.NewMeterProvider().Meter(MeterName)
		return providers, nil
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	)

	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if cfg.TraceWriter != nil {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(cfg.TraceWriter))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		// one-shot runs export synchronously so nothing is lost at exit
		tpOpts = append(tpOpts, sdktrace.WithSyncer(exporter))
	}
	tp := sdktrace.NewTracerProvider(tpOpts...)
	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))

	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	providers.MeterProvider = mp
	providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))
	providers.Registry = registry

	logger.Debug("OpenTelemetry initialized",
		slog.String("service", cfg.ServiceName),
		slog.Bool("trace_export", cfg.TraceWriter != nil))
	return providers, nil
}

// WriteMetrics writes the collected metrics to path in the Prometheus text
// format. It is a no-op when telemetry is disabled.
func (p *OTelProviders) WriteMetrics(path string) error {
	if p.Registry == nil || path == "" {
		return nil
	}
	if err := promclient.WriteToTextfile(path, p.Registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	p.Logger.Info("Metrics written", slog.String("path", path))
	return nil
}

// Shutdown flushes and stops the providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

// RunMetrics are the instruments recorded during an analyzer run
type RunMetrics struct {
	RowsLoaded    metric.Int64Counter
	RowsDropped   metric.Int64Counter
	Analyses      metric.Int64Counter
	Charts        metric.Int64Counter
	Errors        metric.Int64Counter
	StageDuration metric.Float64Histogram
}

// CreateRunMetrics creates the run instruments on meter
func CreateRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	rowsLoaded, err := meter.Int64Counter(
		"analyzer_rows_loaded",
		metric.WithDescription("Rows read from the input file"),
	)
	if err != nil {
		return nil, err
	}

	rowsDropped, err := meter.Int64Counter(
		"analyzer_rows_dropped",
		metric.WithDescription("Rows removed by validation, cleaning or filtering"),
	)
	if err != nil {
		return nil, err
	}

	analyses, err := meter.Int64Counter(
		"analyzer_analyses",
		metric.WithDescription("Analyses executed"),
	)
	if err != nil {
		return nil, err
	}

	charts, err := meter.Int64Counter(
		"analyzer_charts",
		metric.WithDescription("Charts rendered"),
	)
	if err != nil {
		return nil, err
	}

	errorsTotal, err := meter.Int64Counter(
		"analyzer_errors",
		metric.WithDescription("Run errors by type"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"analyzer_stage_duration_seconds",
		metric.WithDescription("Duration of each run stage"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		RowsLoaded:    rowsLoaded,
		RowsDropped:   rowsDropped,
		Analyses:      analyses,
		Charts:        charts,
		Errors:        errorsTotal,
		StageDuration: stageDuration,
	}, nil
}

func status(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("status", "failure")
	}
	return attribute.String("status", "success")
}

// RecordStage records the duration and outcome of a run stage
func (m *RunMetrics) RecordStage(ctx context.Context, stage string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String("stage", stage), status(err)}
	m.StageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	if err != nil {
		m.Errors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("stage", stage),
			attribute.String("error_type", ErrorType(err)),
		))
	}
}

// RecordRows records rows loaded from the source
func (m *RunMetrics) RecordRows(ctx context.Context, loaded int) {
	if m == nil {
		return
	}
	m.RowsLoaded.Add(ctx, int64(loaded))
}

// RecordDropped records rows removed by stage
func (m *RunMetrics) RecordDropped(ctx context.Context, stage string, dropped int) {
	if m == nil || dropped <= 0 {
		return
	}
	m.RowsDropped.Add(ctx, int64(dropped), metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordAnalysis records an executed analysis
func (m *RunMetrics) RecordAnalysis(ctx context.Context, analysis string, err error) {
	if m == nil {
		return
	}
	m.Analyses.Add(ctx, 1, metric.WithAttributes(attribute.String("analysis", analysis), status(err)))
}

// RecordChart records a rendered chart
func (m *RunMetrics) RecordChart(ctx context.Context, kind string, err error) {
	if m == nil {
		return
	}
	m.Charts.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind), status(err)))
}

// TraceIDFromContext extracts the span trace ID from context
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() || err == nil {
		return
	}
	span.RecordError(err, trace.WithAttributes(attribute.String("error.type", ErrorType(err))))
	span.SetStatus(codes.Error, err.Error())
}

// SetSpanAttributes sets attributes on the current span
func SetSpanAttributes(ctx context.Context, attributes map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	for k, v := range attributes {
		switch val := v.(type) {
		case string:
			span.SetAttributes(attribute.String(k, val))
		case int:
			span.SetAttributes(attribute.Int(k, val))
		case int64:
			span.SetAttributes(attribute.Int64(k, val))
		case float64:
			span.SetAttributes(attribute.Float64(k, val))
		case bool:
			span.SetAttributes(attribute.Bool(k, val))
		case []string:
			span.SetAttributes(attribute.StringSlice(k, val))
		default:
			span.SetAttributes(attribute.String(k, fmt.Sprintf("%v", val)))
		}
	}
}
