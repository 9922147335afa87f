// Package metrics provides Prometheus metrics for the attendance
// intelligence pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Training metrics
	trainingsTotal   *prometheus.CounterVec
	trainingFailures *prometheus.CounterVec
	trainingDuration prometheus.Histogram
	trainingRows     prometheus.Gauge

	// Prediction metrics
	predictionsTotal      *prometheus.CounterVec
	predictionUnavailable prometheus.Counter

	// Artifact store metrics
	artifactWrites       prometheus.Counter
	artifactLoadFailures prometheus.Counter

	// Biometric metrics
	extractionsTotal   prometheus.Counter
	extractionFailures *prometheus.CounterVec
	enrollmentsTotal   prometheus.Counter
	verificationsTotal *prometheus.CounterVec
	verifyDistance     prometheus.Histogram

	// Record store metrics
	repositoryQueryLatency prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "muster",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.trainingsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trainings_total",
		Help:      "Completed training runs by mode",
	}, []string{"mode"})

	m.trainingFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "training_failures_total",
		Help:      "Failed training runs by mode",
	}, []string{"mode"})

	m.trainingDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "training_duration_seconds",
		Help:      "Wall time of one training run",
		Buckets:   m.histogramBuckets,
	})

	m.trainingRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "training_rows",
		Help:      "Usable rows in the last training run",
	})

	m.predictionsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_total",
		Help:      "Served predictions by kind",
	}, []string{"kind"})

	m.predictionUnavailable = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_unavailable_total",
		Help:      "Prediction calls answered with model-unavailable",
	})

	m.artifactWrites = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "artifact_writes_total",
		Help:      "Atomic artifact replacements",
	})

	m.artifactLoadFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "artifact_load_failures_total",
		Help:      "Artifact loads that reported unavailable",
	})

	m.extractionsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "extractions_total",
		Help:      "Successful landmark extractions",
	})

	m.extractionFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "extraction_failures_total",
		Help:      "Failed landmark extractions by reason",
	}, []string{"reason"})

	m.enrollmentsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "enrollments_total",
		Help:      "Stored enrollment reference vectors",
	})

	m.verificationsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "verifications_total",
		Help:      "Verification decisions by outcome",
	}, []string{"outcome"})

	m.verifyDistance = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "verify_distance",
		Help:      "Mean per-point landmark distance of verification attempts",
		Buckets:   []float64{0.005, 0.01, 0.02, 0.03, 0.05, 0.1, 0.2, 0.5},
	})

	m.repositoryQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_query_latency_milliseconds",
		Help:      "Record store query latency in milliseconds",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordTraining records one completed training run.
func RecordTraining(mode string, duration time.Duration, rows int) {
	globalManager.trainingsTotal.WithLabelValues(mode).Inc()
	globalManager.trainingDuration.Observe(duration.Seconds())
	globalManager.trainingRows.Set(float64(rows))
}

// RecordTrainingFailure records one failed training run.
func RecordTrainingFailure(mode string) {
	globalManager.trainingFailures.WithLabelValues(mode).Inc()
}

// RecordPrediction records one served prediction.
func RecordPrediction(kind string) {
	globalManager.predictionsTotal.WithLabelValues(kind).Inc()
}

// RecordPredictionUnavailable records a prediction call answered with
// model-unavailable.
func RecordPredictionUnavailable() {
	globalManager.predictionUnavailable.Inc()
}

// RecordArtifactWrite records one atomic artifact replacement.
func RecordArtifactWrite() {
	globalManager.artifactWrites.Inc()
}

// RecordArtifactLoadFailure records an artifact load that reported
// unavailable.
func RecordArtifactLoadFailure() {
	globalManager.artifactLoadFailures.Inc()
}

// RecordExtraction records one successful landmark extraction.
func RecordExtraction() {
	globalManager.extractionsTotal.Inc()
}

// RecordExtractionFailure records a failed extraction by reason.
func RecordExtractionFailure(reason string) {
	globalManager.extractionFailures.WithLabelValues(reason).Inc()
}

// RecordEnrollment records one stored reference vector.
func RecordEnrollment() {
	globalManager.enrollmentsTotal.Inc()
}

// RecordVerification records one verification decision.
func RecordVerification(accepted bool, distance float64) {
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	globalManager.verificationsTotal.WithLabelValues(outcome).Inc()
	globalManager.verifyDistance.Observe(distance)
}

// RecordRepositoryQueryLatency records record store query latency in
// milliseconds.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// GetRegistry returns the custom registry for the metrics endpoint.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
