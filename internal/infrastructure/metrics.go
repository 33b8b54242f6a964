package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "interview_check"

// Metrics holds the application counters exposed on /metrics.
// Each instance owns its registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	EvaluationsSaved   *prometheus.CounterVec
	EvaluationsDeleted *prometheus.CounterVec
	SaveFailures       prometheus.Counter
	MergeRuns          *prometheus.CounterVec
	MergeFilesRead     prometheus.Counter
	MergeFilesSkipped  prometheus.Counter
	TimersActive       prometheus.Gauge
}

// NewMetrics creates and registers the application metrics plus the Go runtime collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		EvaluationsSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "evaluations_saved_total",
			Help:      "Evaluations written, by interviewer.",
		}, []string{"interviewer"}),
		EvaluationsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "evaluations_deleted_total",
			Help:      "Evaluations deleted, by interviewer.",
		}, []string{"interviewer"}),
		SaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "save_failures_total",
			Help:      "Result workbook writes that failed.",
		}),
		MergeRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "merge_runs_total",
			Help:      "Merge requests, by outcome.",
		}, []string{"outcome"}),
		MergeFilesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "merge_files_read_total",
			Help:      "Evaluation files successfully read during merges.",
		}),
		MergeFilesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "merge_files_skipped_total",
			Help:      "Evaluation files skipped as unreadable during merges.",
		}),
		TimersActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "timers_running",
			Help:      "Interview countdown timers currently running.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.EvaluationsSaved,
		m.EvaluationsDeleted,
		m.SaveFailures,
		m.MergeRuns,
		m.MergeFilesRead,
		m.MergeFilesSkipped,
		m.TimersActive,
	)

	return m
}

// TrackPendingDeletes exposes fn as the number of delete confirmations that
// were issued and are neither used nor expired.
func (m *Metrics) TrackPendingDeletes(fn func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "delete_confirmations_pending",
		Help:      "Delete confirmations awaiting use.",
	}, func() float64 { return float64(fn()) }))
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
