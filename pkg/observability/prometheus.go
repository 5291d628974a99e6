package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus hooks.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "depreport").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry collects the metrics. Default: a fresh registry, so that
	// several runs in one process do not clash.
	Registry *prometheus.Registry
}

// MetricsOption configures [NewMetrics].
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry *prometheus.Registry) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "depreport",
		Buckets:   prometheus.DefBuckets,
	}
}

// Metrics implements [PipelineHooks], [CacheHooks] and [HTTPHooks] with
// Prometheus collectors.
//
// Metrics collected:
//   - depreport_manifests_total: manifests processed, by status
//   - depreport_manifest_duration_seconds: time spent per manifest
//   - depreport_dependencies_added_total: new dependencies seen in diffs
//   - depreport_dependency_fetches_total: unique dependency lookups, by result
//   - depreport_dependency_fetch_duration_seconds: lookup latency
//   - depreport_cache_operations_total: cache lookups and writes, by key type
//   - depreport_cache_bytes_written_total: bytes written to caches
//   - depreport_http_requests_total: registry requests, by host and status
//   - depreport_http_request_duration_seconds: registry latency, by host
//   - depreport_http_errors_total: transport failures, by host
type Metrics struct {
	registry *prometheus.Registry

	manifestsTotal   *prometheus.CounterVec
	manifestDuration prometheus.Histogram
	depsAdded        prometheus.Counter
	fetchesTotal     *prometheus.CounterVec
	fetchDuration    prometheus.Histogram
	cacheOps         *prometheus.CounterVec
	cacheBytes       *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	httpErrors       *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}
	if len(config.Buckets) == 0 {
		config.Buckets = prometheus.DefBuckets
	}

	factory := promauto.With(config.Registry)
	counterOpts := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}
	}
	histogramOpts := func(name, help string) prometheus.HistogramOpts {
		return prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}
	}

	return &Metrics{
		registry: config.Registry,

		manifestsTotal: factory.NewCounterVec(
			counterOpts("manifests_total", "Total number of manifests processed"),
			[]string{"status"}),
		manifestDuration: factory.NewHistogram(
			histogramOpts("manifest_duration_seconds", "Manifest processing duration in seconds")),
		depsAdded: factory.NewCounter(
			counterOpts("dependencies_added_total", "Total number of new dependencies found in manifest diffs")),
		fetchesTotal: factory.NewCounterVec(
			counterOpts("dependency_fetches_total", "Total number of unique dependency lookups"),
			[]string{"result"}),
		fetchDuration: factory.NewHistogram(
			histogramOpts("dependency_fetch_duration_seconds", "Dependency lookup duration in seconds")),
		cacheOps: factory.NewCounterVec(
			counterOpts("cache_operations_total", "Total number of cache operations"),
			[]string{"key_type", "op"}),
		cacheBytes: factory.NewCounterVec(
			counterOpts("cache_bytes_written_total", "Total bytes written to caches"),
			[]string{"key_type"}),
		httpRequests: factory.NewCounterVec(
			counterOpts("http_requests_total", "Total number of registry HTTP requests"),
			[]string{"method", "host", "status"}),
		httpDuration: factory.NewHistogramVec(
			histogramOpts("http_request_duration_seconds", "Registry HTTP request duration in seconds"),
			[]string{"host"}),
		httpErrors: factory.NewCounterVec(
			counterOpts("http_errors_total", "Total number of registry HTTP transport errors"),
			[]string{"host"}),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes the current values in the node_exporter textfile
// format, for CI runners that scrape a directory instead of an endpoint.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) OnManifestStart(context.Context, string) {}

func (m *Metrics) OnManifestComplete(_ context.Context, _ string, added int, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.manifestsTotal.WithLabelValues(status).Inc()
	m.manifestDuration.Observe(duration.Seconds())
	m.depsAdded.Add(float64(added))
}

func (m *Metrics) OnDependencyFetched(_ context.Context, _ string, found bool, duration time.Duration) {
	result := "found"
	if !found {
		result = "missing"
	}
	m.fetchesTotal.WithLabelValues(result).Inc()
	m.fetchDuration.Observe(duration.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, host, _ string, statusCode int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, host, strconv.Itoa(statusCode)).Inc()
	m.httpDuration.WithLabelValues(host).Observe(duration.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.httpErrors.WithLabelValues(host).Inc()
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)
