// Package observability provides Prometheus metrics for preview runs.
package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultNamespace = "lobster_preview"

// Metrics holds all Prometheus metrics for one process.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Load metrics
	RowsLoaded    *prometheus.CounterVec
	MissingInputs prometheus.Counter
	LoadDuration  *prometheus.HistogramVec

	// Transform and output metrics
	RowsAnnotated       *prometheus.CounterVec
	RowsPreviewed       *prometheus.CounterVec
	PreviewFilesWritten prometheus.Counter

	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  prometheus.Histogram
	LastSuccessfulRun prometheus.Gauge

	// Sink metrics
	SinkDuration *prometheus.HistogramVec
	SinkErrors   *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance registered on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = defaultNamespace
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RowsLoaded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "rows_loaded_total",
			Help:      "Total number of message rows loaded by input",
		}, []string{"source"}),
		MissingInputs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "missing_inputs_total",
			Help:      "Total number of input files that could not be opened",
		}),
		LoadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "load_duration_seconds",
			Help:      "Time spent reading and parsing one message file",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),

		RowsAnnotated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "normalization",
			Name:      "rows_annotated_total",
			Help:      "Total number of rows given an elapsed time",
		}, []string{"source"}),
		RowsPreviewed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "rows_previewed_total",
			Help:      "Total number of rows written to preview files",
		}, []string{"source"}),
		PreviewFilesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "preview_files_written_total",
			Help:      "Total number of preview CSV files written",
		}),

		PipelineRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status",
		}, []string{"status"}),
		PipelineDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),
		LastSuccessfulRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful pipeline run",
		}),

		SinkDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "insert_duration_seconds",
			Help:      "Preview batch insert duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"sink"}),
		SinkErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "insert_errors_total",
			Help:      "Total number of failed preview batch inserts",
		}, []string{"sink"}),
	}
}

// Registry returns the registry holding every metric.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// RecordLoad records a successfully loaded file.
func (m *Metrics) RecordLoad(source string, rows int, seconds float64) {
	if m == nil {
		return
	}
	m.RowsLoaded.WithLabelValues(source).Add(float64(rows))
	m.LoadDuration.WithLabelValues(source).Observe(seconds)
}

// RecordMissingInput increments the missing inputs counter.
func (m *Metrics) RecordMissingInput() {
	if m == nil {
		return
	}
	m.MissingInputs.Inc()
}

// RecordAnnotated records the rows annotated for a source.
func (m *Metrics) RecordAnnotated(source string, rows int) {
	if m == nil {
		return
	}
	m.RowsAnnotated.WithLabelValues(source).Add(float64(rows))
}

// RecordPreviewWritten records one written preview file.
func (m *Metrics) RecordPreviewWritten(source string, rows int) {
	if m == nil {
		return
	}
	m.RowsPreviewed.WithLabelValues(source).Add(float64(rows))
	m.PreviewFilesWritten.Inc()
}

// RecordSinkInsert records a batch insert into the named sink.
func (m *Metrics) RecordSinkInsert(sink string, seconds float64, err error) {
	if m == nil {
		return
	}
	m.SinkDuration.WithLabelValues(sink).Observe(seconds)
	if err != nil {
		m.SinkErrors.WithLabelValues(sink).Inc()
	}
}

// RecordPipelineRun records a finished pipeline run.
// finishedAt is a Unix timestamp in seconds.
func (m *Metrics) RecordPipelineRun(status string, durationSeconds float64, finishedAt int64) {
	if m == nil {
		return
	}
	m.PipelineRunsTotal.WithLabelValues(status).Inc()
	m.PipelineDuration.Observe(durationSeconds)
	if status == StatusSuccess {
		m.LastSuccessfulRun.Set(float64(finishedAt))
	}
}

// Pipeline run statuses.
const (
	StatusSuccess     = "success"
	StatusMissingFile = "missing_file"
	StatusError       = "error"
)
