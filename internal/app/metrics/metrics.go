// Package metrics exposes job and tool counters in Prometheus format.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"videomasa/internal/app/tools"
)

const namespace = "videomasa"

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	jobsCreated  *prometheus.CounterVec
	jobsFinished *prometheus.CounterVec
	toolRuns     *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec
	filesSwept   prometheus.Counter
}

// New registers all collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		jobsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_created_total",
			Help:      "Jobs created, by source (url or upload).",
		}, []string{"source"}),
		jobsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_finished_total",
			Help:      "Jobs reaching a terminal state, by status and failing stage.",
		}, []string{"status", "stage"}),
		toolRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_runs_total",
			Help:      "External tool invocations, by binary and outcome.",
		}, []string{"tool", "outcome"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_duration_seconds",
			Help:      "Wall time of external tool invocations.",
			Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"tool"}),
		filesSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_swept_total",
			Help:      "Media files removed by the all-terminal sweep.",
		}),
	}
	m.registry.MustRegister(
		m.jobsCreated, m.jobsFinished, m.toolRuns, m.toolDuration, m.filesSwept,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) JobCreated(source string) {
	if m == nil {
		return
	}
	m.jobsCreated.WithLabelValues(source).Inc()
}

// JobFinished counts a terminal transition; stage is empty for successful jobs.
func (m *Metrics) JobFinished(status, stage string) {
	if m == nil {
		return
	}
	m.jobsFinished.WithLabelValues(status, stage).Inc()
}

func (m *Metrics) FilesSwept(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.filesSwept.Add(float64(n))
}

// Instrument wraps runner so every invocation is counted and timed.
func (m *Metrics) Instrument(runner tools.CommandRunner) tools.CommandRunner {
	if m == nil {
		return runner
	}
	return &instrumentedRunner{next: runner, metrics: m}
}

type instrumentedRunner struct {
	next    tools.CommandRunner
	metrics *Metrics
}

func (r *instrumentedRunner) Run(ctx context.Context, name string, args ...string) (tools.Result, error) {
	tool := filepath.Base(name)
	start := time.Now()
	res, err := r.next.Run(ctx, name, args...)
	r.metrics.toolDuration.WithLabelValues(tool).Observe(time.Since(start).Seconds())

	outcome := "success"
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		outcome = "timeout"
	case ctx.Err() != nil:
		outcome = "canceled"
	case err != nil || res.ExitCode != 0:
		outcome = "failure"
	}
	r.metrics.toolRuns.WithLabelValues(tool, outcome).Inc()
	return res, err
}
