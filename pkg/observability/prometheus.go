package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pomwalk"

// Metrics implements every hook interface on a private Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	walks       *prometheus.CounterVec
	walkSeconds prometheus.Histogram
	descriptors prometheus.Counter
	depth       prometheus.Histogram
	skips       *prometheus.CounterVec

	fetches      *prometheus.CounterVec
	fetchBytes   *prometheus.CounterVec
	fetchSeconds *prometheus.HistogramVec

	cacheOps *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpSeconds  *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec
}

// NewMetrics creates the collectors on a fresh registry. Go runtime and
// process collectors are included for the long-running server.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Labels: status (ok, error)
		walks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "walk",
			Name:      "total",
			Help:      "Closure walks by final status",
		}, []string{"status"}),
		walkSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "walk",
			Name:      "duration_seconds",
			Help:      "Wall time of a closure walk",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		descriptors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "walk",
			Name:      "descriptors_total",
			Help:      "Descriptors parsed during walks",
		}),
		depth: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "walk",
			Name:      "descriptor_depth",
			Help:      "Depth of processed descriptors below the root",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
		// Labels: code (UNRESOLVED_VERSION, TRANSPORT, ...)
		skips: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "walk",
			Name:      "skips_total",
			Help:      "Skipped branches by error code",
		}, []string{"code"}),

		// Labels: kind (jar, pom), outcome (downloaded, already_present, not_found, transport_error)
		fetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "total",
			Help:      "Artifact file fetches by outcome",
		}, []string{"kind", "outcome"}),
		fetchBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "bytes_total",
			Help:      "Bytes written to the local repository",
		}, []string{"kind"}),
		fetchSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "duration_seconds",
			Help:      "Time spent fetching one artifact file",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),

		// Labels: key_type, op (hit, miss, set)
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Negative cache operations",
		}, []string{"key_type", "op"}),

		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, host and status",
		}, []string{"method", "host", "status"}),
		httpSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "host"}),
		httpErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "HTTP requests that failed without a response",
		}, []string{"method", "host"}),
	}
}

// Register installs m as the global hook implementation.
func (m *Metrics) Register() {
	SetWalkHooks(m)
	SetFetchHooks(m)
	SetCacheHooks(m)
	SetHTTPHooks(m)
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current metrics to path for the node exporter
// textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) OnWalkStart(context.Context, string, string) {}

func (m *Metrics) OnDescriptor(_ context.Context, _ string, depth int) {
	m.descriptors.Inc()
	m.depth.Observe(float64(depth))
}

func (m *Metrics) OnSkip(_ context.Context, code string) {
	m.skips.WithLabelValues(code).Inc()
}

func (m *Metrics) OnWalkComplete(_ context.Context, _ string, _ WalkStats, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.walks.WithLabelValues(status).Inc()
	m.walkSeconds.Observe(d.Seconds())
}

func (m *Metrics) OnFetch(_ context.Context, kind, outcome string, bytes int64, d time.Duration) {
	m.fetches.WithLabelValues(kind, outcome).Inc()
	if bytes > 0 {
		m.fetchBytes.WithLabelValues(kind).Add(float64(bytes))
	}
	m.fetchSeconds.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, host, _ string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, host, strconv.Itoa(status)).Inc()
	m.httpSeconds.WithLabelValues(method, host).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, method, host, _ string, _ error) {
	m.httpErrors.WithLabelValues(method, host).Inc()
}

var (
	_ WalkHooks  = (*Metrics)(nil)
	_ FetchHooks = (*Metrics)(nil)
	_ CacheHooks = (*Metrics)(nil)
	_ HTTPHooks  = (*Metrics)(nil)
)
