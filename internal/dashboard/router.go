package dashboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/landscape-community/landscape-mcp/internal/telemetry"
)

// APIPrefix is the path prefix of every JSON endpoint.
const APIPrefix = "/v0"

// Middleware configuration options
type middlewareConfig struct {
	skipPaths map[string]bool
}

type MiddlewareOption func(*middlewareConfig)

// getRoutePath extracts the route pattern from the context
func getRoutePath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil && op.Path != "" {
		return op.Path
	}

	// Fallback to URL path (less ideal for metrics as it includes path parameters)
	return ctx.URL().Path
}

// MetricTelemetryMiddleware records request count, duration and errors
// per route pattern.
func MetricTelemetryMiddleware(metrics *telemetry.Metrics, options ...MiddlewareOption) func(huma.Context, func(huma.Context)) {
	config := &middlewareConfig{
		skipPaths: make(map[string]bool),
	}

	for _, opt := range options {
		opt(config)
	}

	return func(ctx huma.Context, next func(huma.Context)) {
		path := ctx.URL().Path

		// Match either the full path or its last segment
		pathParts := strings.Split(path, "/")
		pathToMatch := "/" + pathParts[len(pathParts)-1]
		if config.skipPaths[pathToMatch] || config.skipPaths[path] {
			next(ctx)
			return
		}

		start := time.Now()
		method := ctx.Method()
		routePath := getRoutePath(ctx)

		next(ctx)

		duration := time.Since(start).Seconds()
		statusCode := ctx.Status()

		attrs := []attribute.KeyValue{
			attribute.String("method", method),
			attribute.String("path", routePath),
			attribute.Int("status_code", statusCode),
		}

		metrics.Requests.Add(ctx.Context(), 1, metric.WithAttributes(attrs...))

		if statusCode >= 400 {
			metrics.ErrorCount.Add(ctx.Context(), 1, metric.WithAttributes(attrs...))
		}

		metrics.RequestDuration.Record(ctx.Context(), duration, metric.WithAttributes(attrs...))
	}
}

// WithSkipPaths allows skipping instrumentation for specific paths
func WithSkipPaths(paths ...string) MiddlewareOption {
	return func(c *middlewareConfig) {
		for _, path := range paths {
			c.skipPaths[path] = true
		}
	}
}

// handle404 returns a problem document pointing at the API prefix.
func handle404(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusNotFound)

	path := r.URL.Path
	detail := "Endpoint not found. See /docs for the API documentation."
	if !strings.HasPrefix(path, APIPrefix+"/") {
		detail = fmt.Sprintf("Endpoint not found. Did you mean '%s'? See /docs for the API documentation.", APIPrefix+path)
	}

	body, err := json.Marshal(map[string]any{
		"title":  "Not Found",
		"status": http.StatusNotFound,
		"detail": detail,
	})
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(body)
}

// NewHumaAPI registers the dashboard API, the HTML view and /metrics on mux.
// metrics may be nil, in which case requests are not instrumented.
func NewHumaAPI(mux *http.ServeMux, inv Inventory, metrics *telemetry.Metrics, versionInfo *VersionBody, opts ...Option) huma.API {
	humaConfig := huma.DefaultConfig("Landscape Inventory Dashboard", versionInfo.Version)
	humaConfig.Info.Description = "Filtered views, analytics and exports over a cached snapshot of the Landscape fleet."
	// Disable $schema property in responses: https://github.com/danielgtaylor/huma/issues/230
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}

	api := humago.New(mux, humaConfig)

	api.OpenAPI().Tags = []*huma.Tag{
		{Name: "machines", Description: "Filtered machine listings and details"},
		{Name: "analytics", Description: "Aggregations over the filtered fleet"},
		{Name: "export", Description: "Downloads of the filtered fleet"},
		{Name: "admin", Description: "Snapshot cache management"},
		{Name: "health", Description: "Health check endpoint for monitoring service availability"},
		{Name: "ping", Description: "Simple ping endpoint for testing connectivity"},
		{Name: "version", Description: "Version information endpoint for retrieving build and version details"},
	}

	if metrics != nil {
		api.UseMiddleware(MetricTelemetryMiddleware(metrics,
			WithSkipPaths("/health", "/metrics", "/ping", "/docs"),
		))
	}

	h := newHandlers(inv, opts...)
	RegisterCommonEndpoints(api, APIPrefix, inv, versionInfo)
	RegisterMachineEndpoints(api, APIPrefix, h)
	RegisterAnalyticsEndpoints(api, APIPrefix, h)
	RegisterExportEndpoints(api, APIPrefix, h)
	RegisterAdminEndpoints(api, APIPrefix, h)

	if metrics != nil {
		mux.Handle("/metrics", metrics.PrometheusHandler())
	}

	ui := newUIHandler(h)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			handle404(w, r)
			return
		}
		ui.ServeHTTP(w, r)
	})

	return api
}
