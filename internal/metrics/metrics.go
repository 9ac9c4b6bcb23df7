// Package metrics exposes Prometheus instruments for the ingest pipeline.
package metrics

import (
	"errors"
	"time"

	"github.com/dgallion1/clausegest/internal/convert"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// documentsTotal counts finished jobs.
	// Labels: status (completed, partial, failed, duplicate_skipped)
	documentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clausegest",
		Subsystem: "pipeline",
		Name:      "documents_total",
		Help:      "Documents processed by final job status",
	}, []string{"status"})

	clausesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "clausegest",
		Subsystem: "pipeline",
		Name:      "clauses_total",
		Help:      "Clause records emitted by segmentation",
	})

	crossReferencesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "clausegest",
		Subsystem: "pipeline",
		Name:      "cross_references_total",
		Help:      "Cross references found between clauses",
	})

	// conversionFailures counts converter errors.
	// Labels: kind (unsupported, unavailable, failed, other)
	conversionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clausegest",
		Subsystem: "convert",
		Name:      "failures_total",
		Help:      "Document conversion failures by kind",
	}, []string{"kind"})

	phaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "clausegest",
		Subsystem: "pipeline",
		Name:      "phase_duration_seconds",
		Help:      "Time spent per pipeline phase",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
	}, []string{"phase"})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "clausegest",
		Subsystem: "pipeline",
		Name:      "queue_depth",
		Help:      "Jobs waiting for a worker",
	})
)

// RecordDocument counts a job that reached a final status.
func RecordDocument(status string) {
	documentsTotal.WithLabelValues(status).Inc()
}

// RecordClauses adds the output of one segmentation run.
func RecordClauses(clauses, refs int) {
	clausesTotal.Add(float64(clauses))
	crossReferencesTotal.Add(float64(refs))
}

// RecordConversionFailure counts err under its failure kind.
func RecordConversionFailure(err error) {
	conversionFailures.WithLabelValues(FailureKind(err)).Inc()
}

// FailureKind maps a converter error to its metric label.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, convert.ErrUnsupportedFormat):
		return "unsupported"
	case errors.Is(err, convert.ErrConverterUnavailable):
		return "unavailable"
	case errors.Is(err, convert.ErrConversionFailed):
		return "failed"
	default:
		return "other"
	}
}

// ObservePhase records how long phase took since start.
func ObservePhase(phase string, start time.Time) {
	phaseDuration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
}

// SetQueueDepth reports the current job queue length.
func SetQueueDepth(n int) {
	queueDepth.Set(float64(n))
}
