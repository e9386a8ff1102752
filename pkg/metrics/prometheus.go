// Package metrics provides Prometheus metrics for the layoffs cleaning job.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default latency buckets in milliseconds.
var defaultBuckets = []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000, 5000} //nolint:gochecknoglobals // read-only defaults

// Manager manages all Prometheus metrics for the cleaning job.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Pipeline volume
	rowsLoaded         prometheus.Counter
	rowsWritten        prometheus.Gauge
	duplicatesRemoved  prometheus.Counter
	industriesBackfill prometheus.Counter
	rowsPruned         prometheus.Counter
	valuesStandardized *prometheus.CounterVec
	parseErrors        *prometheus.CounterVec
	runsTotal          *prometheus.CounterVec
	stageLatency       *prometheus.HistogramVec
	repositoryLatency  *prometheus.HistogramVec
	lastRunSuccessUnix prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "layoffs",
		subsystem:        "cleaner",
		histogramBuckets: defaultBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.rowsLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_loaded_total",
		Help:        "Total number of raw rows read into the working set",
		ConstLabels: m.constLabels,
	})

	m.rowsWritten = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_written",
		Help:        "Number of cleaned rows written by the last run",
		ConstLabels: m.constLabels,
	})

	m.duplicatesRemoved = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "duplicates_removed_total",
		Help:        "Total number of duplicate rows discarded",
		ConstLabels: m.constLabels,
	})

	m.industriesBackfill = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "industries_backfilled_total",
		Help:        "Total number of missing industries filled from a sibling row",
		ConstLabels: m.constLabels,
	})

	m.rowsPruned = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_pruned_total",
		Help:        "Total number of rows dropped for lacking any layoff measure",
		ConstLabels: m.constLabels,
	})

	m.valuesStandardized = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "values_standardized_total",
			Help:        "Total number of field values rewritten by standardization",
			ConstLabels: m.constLabels,
		},
		[]string{"field"},
	)

	m.parseErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "parse_errors_total",
			Help:        "Total number of values that did not match their expected format",
			ConstLabels: m.constLabels,
		},
		[]string{"field"},
	)

	m.runsTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "runs_total",
			Help:        "Total number of cleaning runs by outcome",
			ConstLabels: m.constLabels,
		},
		[]string{"outcome"},
	)

	m.stageLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "stage_duration_milliseconds",
			Help:        "Duration of each pipeline stage in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"stage"},
	)

	m.repositoryLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "repository_duration_milliseconds",
			Help:        "Duration of staging table operations in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"operation"},
	)

	m.lastRunSuccessUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_success_timestamp_seconds",
		Help:        "Unix time of the last successful run",
		ConstLabels: m.constLabels,
	})
}

// RecordRowsLoaded adds n rows to the loaded counter.
func RecordRowsLoaded(n int) {
	globalManager.rowsLoaded.Add(float64(n))
}

// UpdateRowsWritten sets the number of rows written by the current run.
func UpdateRowsWritten(n int) {
	globalManager.rowsWritten.Set(float64(n))
}

// RecordDuplicatesRemoved adds n discarded duplicates.
func RecordDuplicatesRemoved(n int) {
	globalManager.duplicatesRemoved.Add(float64(n))
}

// RecordIndustriesBackfilled adds n backfilled industries.
func RecordIndustriesBackfilled(n int) {
	globalManager.industriesBackfill.Add(float64(n))
}

// RecordRowsPruned adds n pruned rows.
func RecordRowsPruned(n int) {
	globalManager.rowsPruned.Add(float64(n))
}

// RecordValuesStandardized adds n rewrites for field.
func RecordValuesStandardized(field string, n int) {
	globalManager.valuesStandardized.WithLabelValues(field).Add(float64(n))
}

// RecordParseError counts a malformed value of field.
func RecordParseError(field string) {
	globalManager.parseErrors.WithLabelValues(field).Inc()
}

// RecordRun counts a finished run. A successful run also stamps the success gauge.
func RecordRun(success bool) {
	if success {
		globalManager.runsTotal.WithLabelValues("success").Inc()
		globalManager.lastRunSuccessUnix.SetToCurrentTime()
		return
	}
	globalManager.runsTotal.WithLabelValues("failure").Inc()
}

// RecordStageLatency records the duration of a pipeline stage.
func RecordStageLatency(stage string, latencyMs float64) {
	globalManager.stageLatency.WithLabelValues(stage).Observe(latencyMs)
}

// RecordRepositoryLatency records the duration of a staging table operation.
func RecordRepositoryLatency(operation string, latencyMs float64) {
	globalManager.repositoryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile dumps the registry in the text exposition format, for a
// node_exporter textfile collector to pick up after the batch exits.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}
