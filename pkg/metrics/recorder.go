// Package metrics provides Prometheus-based metrics recording for staged
// edit cache activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"editcache/pkg/staging"
	"editcache/pkg/utils"
)

// PrometheusRecorder implements staging.Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stagedTotal    *prometheus.CounterVec
	conflictsTotal prometheus.Counter
	flushesTotal   *prometheus.CounterVec
	flushedFiles   prometheus.Counter
	flushedOps     prometheus.Counter
	flushDuration  *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a new Prometheus-based metrics recorder and
// registers its collectors with the default registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	return &PrometheusRecorder{
		stagedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "editcache_staged_operations_total",
				Help: "Total number of staged edit operations by agent and kind",
			},
			[]string{"agent_id", "kind"},
		),
		conflictsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "editcache_conflicts_detected_total",
				Help: "Total number of cross-agent conflicts surfaced by conflict scans",
			},
		),
		flushesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "editcache_flushes_total",
				Help: "Total number of flush attempts by agent and status",
			},
			[]string{"agent_id", "status"},
		),
		flushedFiles: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "editcache_flushed_files_total",
				Help: "Total number of files committed to disk by flushes",
			},
		),
		flushedOps: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "editcache_flushed_operations_total",
				Help: "Total number of staged operations committed to disk by flushes",
			},
		),
		flushDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "editcache_flush_duration_seconds",
				Help:    "Duration of flush calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"agent_id"},
		),
	}
}

// ObserveStage records one successfully staged operation.
func (p *PrometheusRecorder) ObserveStage(agent, _ string, kind staging.OpKind) {
	p.stagedTotal.WithLabelValues(utils.SanitizeIdentifier(agent), kind.String()).Inc()
}

// ObserveConflicts records the outcome of one conflict scan. The file path
// is deliberately not a label: paths are unbounded and would explode metric
// cardinality.
func (p *PrometheusRecorder) ObserveConflicts(_ string, count int) {
	if count > 0 {
		p.conflictsTotal.Add(float64(count))
	}
}

// ObserveFlush records one flush attempt.
func (p *PrometheusRecorder) ObserveFlush(agent string, files, ops int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	agentLabel := utils.SanitizeIdentifier(agent)

	p.flushesTotal.WithLabelValues(agentLabel, status).Inc()
	p.flushDuration.WithLabelValues(agentLabel).Observe(duration.Seconds())
	if err == nil {
		p.flushedFiles.Add(float64(files))
		p.flushedOps.Add(float64(ops))
	}
}
