// Package metrics provides Prometheus metrics for the salesdash service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Dataset lifecycle - loads, rejections, and the shape of what's live
	datasetsLoaded    *prometheus.CounterVec
	uploadsRejected   *prometheus.CounterVec
	uploadRowsDropped prometheus.Counter
	datasetRows       prometheus.Gauge
	datasetCategories prometheus.Gauge
	datasetRegions    prometheus.Gauge

	// Filter activity - edits and silent corrections
	filterEdits  prometheus.Counter
	filterClamps prometheus.Counter
	filterResets prometheus.Counter

	// View derivation
	viewRecomputeDuration prometheus.Histogram
	viewRows              prometheus.Gauge

	// Sample generation cache
	sampleCacheSize prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// GetRegistry returns the registry the global manager registers on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "salesdash",
		subsystem:        "session",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for metrics initialization
	auto := promauto.With(m.registry)

	m.datasetsLoaded = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "datasets_loaded_total",
			Help:      "Total number of successful dataset loads by source",
		},
		[]string{"source"},
	)

	m.uploadsRejected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "uploads_rejected_total",
			Help:      "Total number of rejected uploads by failing rule",
		},
		[]string{"rule"},
	)

	m.uploadRowsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upload_rows_dropped_total",
		Help:      "Total rows dropped during numeric cleaning of accepted uploads",
	})

	m.datasetRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_rows",
		Help:      "Row count of the live dataset",
	})

	m.datasetCategories = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_categories",
		Help:      "Distinct categories in the live dataset",
	})

	m.datasetRegions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_regions",
		Help:      "Distinct regions in the live dataset",
	})

	m.filterEdits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "filter_edits_total",
		Help:      "Total number of user filter edits applied",
	})

	m.filterClamps = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "filter_clamps_total",
		Help:      "Total number of silently corrected filter selections",
	})

	m.filterResets = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "filter_resets_total",
		Help:      "Total number of filter resets caused by dataset replacement",
	})

	m.viewRecomputeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "view_recompute_duration_milliseconds",
		Help:      "Duration of the signature/reconcile/filter recompute pass",
		Buckets:   m.histogramBuckets,
	})

	m.viewRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "view_rows",
		Help:      "Row count of the current filtered view",
	})

	m.sampleCacheSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sample_cache_size",
		Help:      "Number of memoized sample datasets",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of error responses by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordDatasetLoaded increments the dataset load counter for a source.
func RecordDatasetLoaded(source string) {
	globalManager.datasetsLoaded.WithLabelValues(source).Inc()
}

// RecordUploadRejected increments the rejected uploads counter for a rule.
func RecordUploadRejected(rule string) {
	globalManager.uploadsRejected.WithLabelValues(rule).Inc()
}

// AddUploadRowsDropped adds cleaned-away rows from an accepted upload.
func AddUploadRowsDropped(n int) {
	if n > 0 {
		globalManager.uploadRowsDropped.Add(float64(n))
	}
}

// UpdateDatasetShape sets the live dataset gauges.
func UpdateDatasetShape(rows, categories, regions int) {
	globalManager.datasetRows.Set(float64(rows))
	globalManager.datasetCategories.Set(float64(categories))
	globalManager.datasetRegions.Set(float64(regions))
}

// RecordFilterEdit increments the filter edit counter.
func RecordFilterEdit() {
	globalManager.filterEdits.Inc()
}

// RecordFilterClamp increments the clamped-selection counter.
func RecordFilterClamp() {
	globalManager.filterClamps.Inc()
}

// RecordFilterReset increments the reset-on-replacement counter.
func RecordFilterReset() {
	globalManager.filterResets.Inc()
}

// RecordViewRecompute records the duration of one recompute pass.
func RecordViewRecompute(durationMs float64) {
	globalManager.viewRecomputeDuration.Observe(durationMs)
}

// UpdateViewRows sets the current filtered view size.
func UpdateViewRows(rows int) {
	globalManager.viewRows.Set(float64(rows))
}

// UpdateSampleCacheSize sets the memoized sample cache size.
func UpdateSampleCacheSize(size int) {
	globalManager.sampleCacheSize.Set(float64(size))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records a GC pause duration.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}
