// Package telemetry sets up OpenTelemetry metrics exported in Prometheus
// format.
package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const (
	serviceName = "landscape-mcp"
	meterName   = "github.com/landscape-community/landscape-mcp"
)

// ShutdownFunc flushes and stops the meter provider. A nil context is
// treated as context.Background.
type ShutdownFunc func(context.Context) error

// Metrics holds every instrument recorded by the process.
type Metrics struct {
	// HTTP server
	Requests        metric.Int64Counter
	RequestDuration metric.Float64Histogram
	ErrorCount      metric.Int64Counter

	// MCP
	ToolCalls    metric.Int64Counter
	ToolDuration metric.Float64Histogram

	// Inventory snapshot fetches
	SnapshotFetches       metric.Int64Counter
	SnapshotFetchDuration metric.Float64Histogram

	prometheusHandler http.Handler
}

// InitMetrics installs a global meter provider backed by a dedicated
// Prometheus registry and starts Go runtime instrumentation.
func InitMetrics(version string) (ShutdownFunc, *Metrics, error) {
	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", version),
	)

	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	if err := runtime.Start(
		runtime.WithMeterProvider(provider),
		runtime.WithMinimumReadMemStatsInterval(15*time.Second),
	); err != nil {
		return nil, nil, fmt.Errorf("failed to start runtime metrics: %w", err)
	}

	m, err := newMetrics(provider.Meter(meterName))
	if err != nil {
		return nil, nil, err
	}
	m.prometheusHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	shutdown := func(ctx context.Context) error {
		if ctx == nil {
			ctx = context.Background()
		}
		return provider.Shutdown(ctx)
	}
	return shutdown, m, nil
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)

	if m.Requests, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, fmt.Errorf("failed to create requests counter: %w", err)
	}

	if m.RequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create request duration histogram: %w", err)
	}

	if m.ErrorCount, err = meter.Int64Counter(
		"http_errors_total",
		metric.WithDescription("Total number of HTTP responses with status >= 400"),
	); err != nil {
		return nil, fmt.Errorf("failed to create error counter: %w", err)
	}

	if m.ToolCalls, err = meter.Int64Counter(
		"mcp_tool_calls_total",
		metric.WithDescription("Total number of MCP tool calls"),
	); err != nil {
		return nil, fmt.Errorf("failed to create tool call counter: %w", err)
	}

	if m.ToolDuration, err = meter.Float64Histogram(
		"mcp_tool_call_duration_seconds",
		metric.WithDescription("MCP tool call duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create tool duration histogram: %w", err)
	}

	if m.SnapshotFetches, err = meter.Int64Counter(
		"inventory_snapshot_fetches_total",
		metric.WithDescription("Total number of inventory snapshot fetches"),
	); err != nil {
		return nil, fmt.Errorf("failed to create snapshot fetch counter: %w", err)
	}

	if m.SnapshotFetchDuration, err = meter.Float64Histogram(
		"inventory_snapshot_fetch_duration_seconds",
		metric.WithDescription("Inventory snapshot fetch duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create snapshot fetch histogram: %w", err)
	}

	return &m, nil
}

// PrometheusHandler serves the metrics registry.
func (m *Metrics) PrometheusHandler() http.Handler {
	return m.prometheusHandler
}

// RecordToolCall records one MCP tool invocation.
func (m *Metrics) RecordToolCall(ctx context.Context, tool string, d time.Duration, failed bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.Bool("error", failed),
	)
	m.ToolCalls.Add(ctx, 1, attrs)
	m.ToolDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordSnapshotFetch records one inventory fetch.
func (m *Metrics) RecordSnapshotFetch(ctx context.Context, d time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("error", err != nil))
	m.SnapshotFetches.Add(ctx, 1, attrs)
	m.SnapshotFetchDuration.Record(ctx, d.Seconds(), attrs)
}
