// Package metrics provides Prometheus metrics for the analytics service.
package metrics

import (
	"fmt"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager owns the Prometheus collectors of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Pipeline
	viewsBuilt      *prometheus.CounterVec
	viewLatency     prometheus.Histogram
	emptySelections prometheus.Counter
	joinMismatches  *prometheus.CounterVec
	insights        *prometheus.CounterVec
	scoringErrors   prometheus.Counter
	feiScores       prometheus.Histogram
	exports         *prometheus.CounterVec

	// Dataset
	datasetRecords *prometheus.GaugeVec

	// Live check
	liveStatus       prometheus.Gauge
	liveChecks       *prometheus.CounterVec
	liveCheckLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// Runtime
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pldash",
		subsystem:        "analytics",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.histogramBuckets,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.viewsBuilt = auto.NewCounterVec(m.counterOpts("views_built_total",
		"Total number of dashboard views built by season"), []string{"season"})
	m.viewLatency = auto.NewHistogram(m.histogramOpts("view_latency_milliseconds",
		"Latency of building and scoring a view in milliseconds"))
	m.emptySelections = auto.NewCounter(m.counterOpts("empty_selections_total",
		"Total number of requests whose selection matched no rows"))
	m.joinMismatches = auto.NewCounterVec(m.counterOpts("join_mismatches_total",
		"Total number of selected teams dropped by the performance join"), []string{"missing"})
	m.insights = auto.NewCounterVec(m.counterOpts("insights_total",
		"Total number of insights generated by severity"), []string{"severity"})
	m.scoringErrors = auto.NewCounter(m.counterOpts("scoring_errors_total",
		"Total number of scoring errors"))
	m.feiScores = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: "fei_score",
		Help: "Distribution of scored Financial Efficiency Index values", ConstLabels: m.constLabels,
		Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
	})
	m.exports = auto.NewCounterVec(m.counterOpts("exports_total",
		"Total number of exports by format"), []string{"format"})

	m.datasetRecords = auto.NewGaugeVec(m.gaugeOpts("dataset_records",
		"Number of records in the loaded dataset by kind"), []string{"kind"})

	m.liveStatus = auto.NewGauge(m.gaugeOpts("live_status",
		"1 when the last live data probe succeeded, 0 otherwise"))
	m.liveChecks = auto.NewCounterVec(m.counterOpts("live_checks_total",
		"Total number of live data probes by result"), []string{"result"})
	m.liveCheckLatency = auto.NewHistogram(m.histogramOpts("live_check_latency_milliseconds",
		"Latency of live data probes in milliseconds"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds"), []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Total number of errors by component"), []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"Heap memory in use in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Number of goroutines"))
}

// ObserveFEI records one scored FEI value.
func ObserveFEI(fei float64) {
	globalManager.feiScores.Observe(fei)
}

// RecordViewBuilt counts a built view and its latency.
func RecordViewBuilt(season string, latencyMs float64) {
	globalManager.viewsBuilt.WithLabelValues(season).Inc()
	globalManager.viewLatency.Observe(latencyMs)
}

// RecordEmptySelection counts a request that matched no rows.
func RecordEmptySelection() {
	globalManager.emptySelections.Inc()
}

// RecordJoinMismatch counts a team dropped by the join.
func RecordJoinMismatch(missing string) {
	globalManager.joinMismatches.WithLabelValues(missing).Inc()
}

// RecordInsight counts a generated insight.
func RecordInsight(severity string) {
	globalManager.insights.WithLabelValues(severity).Inc()
}

// RecordScoringError increments the scoring errors counter.
func RecordScoringError() {
	globalManager.scoringErrors.Inc()
}

// RecordExport counts an export.
func RecordExport(format string) {
	globalManager.exports.WithLabelValues(format).Inc()
}

// UpdateDatasetRecords sets the record count of one dataset kind.
func UpdateDatasetRecords(kind string, count int) {
	globalManager.datasetRecords.WithLabelValues(kind).Set(float64(count))
}

// RecordLiveCheck records a live data probe.
func RecordLiveCheck(live bool, latencyMs float64) {
	result := "down"
	globalManager.liveStatus.Set(0)
	if live {
		result = "live"
		globalManager.liveStatus.Set(1)
	}
	globalManager.liveChecks.WithLabelValues(result).Inc()
	globalManager.liveCheckLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMetrics samples the runtime gauges.
func UpdateSystemMetrics() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	globalManager.systemMemoryUsage.Set(float64(ms.HeapInuse))
	globalManager.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
}

// RefreshInterval returns how often runtime gauges should be sampled.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// CounterValue sums a counter family on the global registry, optionally
// restricted to series matching labels. Families without samples read as 0.
func CounterValue(name string, labels map[string]string) (float64, error) {
	families, err := customRegistry.Gather()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrGatherFailed, err)
	}
	full := prometheus.BuildFQName(globalManager.namespace, globalManager.subsystem, name)
	for _, mf := range families {
		if mf.GetName() != full {
			continue
		}
		var total float64
		for _, metric := range mf.GetMetric() {
			if matches(metric, labels) {
				total += metric.GetCounter().GetValue()
			}
		}
		return total, nil
	}
	return 0, nil
}

func matches(metric *dto.Metric, labels map[string]string) bool {
	for k, v := range labels {
		found := false
		for _, lp := range metric.GetLabel() {
			if lp.GetName() == k && lp.GetValue() == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
