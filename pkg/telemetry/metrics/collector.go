// Package metrics exposes Prometheus metrics for monitor mode.
//
// Metrics:
//   - proxyprobe_suite_runs_total:       suite runs by result
//   - proxyprobe_checks_total:           check executions by check and status
//   - proxyprobe_check_duration_seconds: check duration histogram
//   - proxyprobe_stream_chunks_total:    content chunks received by the
//     streaming check
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"probehq/proxyprobe/pkg/config"
)

// Collector registers and records all proxyprobe metrics on one registry.
type Collector struct {
	registry *prometheus.Registry

	suiteRuns     *prometheus.CounterVec
	checksTotal   *prometheus.CounterVec
	checkDuration *prometheus.HistogramVec
	streamChunks  prometheus.Counter
}

// NewCollector creates a metrics collector with the given configuration.
// If registry is nil, a fresh registry is created.
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	buckets := cfg.DurationBuckets
	if len(buckets) == 0 {
		buckets = config.DefaultDurationBuckets
	}

	c := &Collector{
		registry: registry,

		suiteRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "suite_runs_total",
				Help:      "Total number of check suite runs by result",
			},
			[]string{"result"},
		),

		checksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "checks_total",
				Help:      "Total number of check executions by check name and status",
			},
			[]string{"check", "status"},
		),

		checkDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "check_duration_seconds",
				Help:      "Duration of individual checks in seconds",
				Buckets:   buckets,
			},
			[]string{"check"},
		),

		streamChunks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "stream_chunks_total",
				Help:      "Total content chunks received by the streaming check",
			},
		),
	}

	registry.MustRegister(c.suiteRuns, c.checksTotal, c.checkDuration, c.streamChunks)

	return c
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordSuiteRun records the outcome of one full suite run.
// Result is one of "pass", "fail", or "aborted".
func (c *Collector) RecordSuiteRun(result string) {
	c.suiteRuns.WithLabelValues(result).Inc()
}

// RecordCheck records one check execution.
func (c *Collector) RecordCheck(check, status string, duration time.Duration) {
	c.checksTotal.WithLabelValues(check, status).Inc()
	c.checkDuration.WithLabelValues(check).Observe(duration.Seconds())
}

// RecordStreamChunks adds to the streaming chunk counter.
func (c *Collector) RecordStreamChunks(n int) {
	c.streamChunks.Add(float64(n))
}
