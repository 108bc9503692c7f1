// Package metrics holds the Prometheus collectors and the OpenTelemetry
// tracer shared by the render path and the HTTP layer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
)

// Tracer is used for spans around template resolution and page rendering.
// It is a no-op until a tracer provider is installed.
var Tracer = otel.Tracer("github.com/roblesbraun/braunstudio")

var (
	// TemplateLoads counts template loader runs by outcome ("ok", "error").
	TemplateLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "braunstudio_template_loads_total",
		Help: "Template version loads by template, version and result",
	}, []string{"template", "version", "result"})

	// PageRenders counts wedding page renders by outcome.
	PageRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "braunstudio_page_renders_total",
		Help: "Wedding page renders by template, version and outcome",
	}, []string{"template", "version", "outcome"})

	// RenderDuration records page render latency.
	RenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "braunstudio_page_render_duration_seconds",
		Help:    "Wedding page render latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"template"})

	// PageCache counts page cache lookups and writes ("hit", "miss", "store", "error").
	PageCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "braunstudio_page_cache_total",
		Help: "Page cache operations by result",
	}, []string{"result"})

	// Effects counts side-effect capability calls, live or simulated.
	Effects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "braunstudio_effects_total",
		Help: "Guest-facing side effects by capability and mode",
	}, []string{"capability", "mode"})

	// HTTPRequests counts handled requests by route pattern and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "braunstudio_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	// HTTPDuration records request latency by route pattern.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "braunstudio_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
