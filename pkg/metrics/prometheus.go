// Package metrics provides Prometheus metrics for the secure score history pipeline.
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Ingestion
	ingestTotal      *prometheus.CounterVec
	ingestDuration   prometheus.Histogram
	stageErrors      *prometheus.CounterVec
	skippedElements  *prometheus.CounterVec
	lastSuccessUnix  prometheus.Gauge
	historyRecords   prometheus.Gauge
	scoreCurrent     prometheus.Gauge
	scoreMax         prometheus.Gauge
	scorePercentage  prometheus.Gauge
	scoreDelta       prometheus.Gauge
	storageWriteSize prometheus.Gauge

	// HTTP (serve mode)
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

var runtimeOnce sync.Once //nolint:gochecknoglobals // guards one-time collector registration

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "securescore",
		subsystem:        "history",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one block per metric
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.ingestTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "ingest_total",
		Help:        "Total number of ingestion runs by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.ingestDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "ingest_duration_milliseconds",
		Help:        "Wall time of one ingestion run in milliseconds, fetch included",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.stageErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_errors_total",
		Help:        "Total number of ingestion failures by stage and error type",
		ConstLabels: labels,
	}, []string{"stage", "error_type"})

	m.skippedElements = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "skipped_elements_total",
		Help:        "History elements skipped during normalization by JSON kind",
		ConstLabels: labels,
	}, []string{"kind"})

	m.lastSuccessUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_success_unix",
		Help:        "Unix timestamp of the last successful ingestion",
		ConstLabels: labels,
	})

	m.historyRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records",
		Help:        "Number of records in the history after the last load or ingestion",
		ConstLabels: labels,
	})

	m.scoreCurrent = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "score_current",
		Help:        "Current secure score of the latest record",
		ConstLabels: labels,
	})

	m.scoreMax = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "score_max",
		Help:        "Maximum secure score of the latest record",
		ConstLabels: labels,
	})

	m.scorePercentage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "score_percentage",
		Help:        "Secure score percentage of the latest record",
		ConstLabels: labels,
	})

	m.scoreDelta = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "score_delta",
		Help:        "Difference between the latest and the previous current score",
		ConstLabels: labels,
	})

	m.storageWriteSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "storage_bytes",
		Help:        "Size in bytes of the last persisted history file",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "Total number of errors by endpoint",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "error_type"})
}

// RecordIngest counts one ingestion run and observes its duration.
func (m *Manager) RecordIngest(outcome string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.ingestTotal.WithLabelValues(outcome).Inc()
	m.ingestDuration.Observe(latencyMs)
}

// RecordStageError counts a failure of one ingestion stage.
func (m *Manager) RecordStageError(stage, errorType string) {
	if !m.enabled {
		return
	}
	m.stageErrors.WithLabelValues(stage, errorType).Inc()
}

// RecordSkippedElement counts a non-record element dropped by the normalizer.
func (m *Manager) RecordSkippedElement(kind string) {
	if !m.enabled {
		return
	}
	m.skippedElements.WithLabelValues(kind).Inc()
}

// RecordSuccess stamps the last successful ingestion time.
func (m *Manager) RecordSuccess(at time.Time) {
	if !m.enabled {
		return
	}
	m.lastSuccessUnix.Set(float64(at.Unix()))
}

// UpdateHistoryRecords sets the number of records in the history.
func (m *Manager) UpdateHistoryRecords(count int) {
	if !m.enabled {
		return
	}
	m.historyRecords.Set(float64(count))
}

// UpdateScore sets the gauges describing the latest record.
func (m *Manager) UpdateScore(current, maximum float64, percentage int) {
	if !m.enabled {
		return
	}
	m.scoreCurrent.Set(current)
	m.scoreMax.Set(maximum)
	m.scorePercentage.Set(float64(percentage))
}

// UpdateDelta sets the latest score delta.
func (m *Manager) UpdateDelta(delta float64) {
	if !m.enabled {
		return
	}
	m.scoreDelta.Set(delta)
}

// UpdateStorageBytes sets the size of the last persisted file.
func (m *Manager) UpdateStorageBytes(n int) {
	if !m.enabled {
		return
	}
	m.storageWriteSize.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// Package-level helpers delegate to the global manager.

// RecordIngest counts one ingestion run and observes its duration.
func RecordIngest(outcome string, latencyMs float64) { globalManager.RecordIngest(outcome, latencyMs) }

// RecordStageError counts a failure of one ingestion stage.
func RecordStageError(stage, errorType string) { globalManager.RecordStageError(stage, errorType) }

// RecordSkippedElement counts a non-record element dropped by the normalizer.
func RecordSkippedElement(kind string) { globalManager.RecordSkippedElement(kind) }

// RecordSuccess stamps the last successful ingestion time.
func RecordSuccess(at time.Time) { globalManager.RecordSuccess(at) }

// UpdateHistoryRecords sets the number of records in the history.
func UpdateHistoryRecords(count int) { globalManager.UpdateHistoryRecords(count) }

// UpdateScore sets the gauges describing the latest record.
func UpdateScore(current, maximum float64, percentage int) {
	globalManager.UpdateScore(current, maximum, percentage)
}

// UpdateDelta sets the latest score delta.
func UpdateDelta(delta float64) { globalManager.UpdateDelta(delta) }

// UpdateStorageBytes sets the size of the last persisted file.
func UpdateStorageBytes(n int) { globalManager.UpdateStorageBytes(n) }

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the current state of the custom registry in the
// text exposition format, for pickup by a node exporter textfile collector.
// The file is replaced atomically by the client library.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrTextfile, err)
	}
	return nil
}

// EnableRuntimeMetrics adds the Go runtime and process collectors to the
// custom registry. Only long running processes need them; a one-shot ingest
// leaves them out of its textfile.
func EnableRuntimeMetrics() {
	runtimeOnce.Do(func() {
		customRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
}
