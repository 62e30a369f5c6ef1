// Package metrics exposes Prometheus collectors for simulation runs and batches.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fire"

// Run outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeBankrupt = "bankrupt"
	OutcomeError    = "error"
)

// Collector records simulation metrics. A nil *Collector is valid and records nothing.
type Collector struct {
	RunsTotal     *prometheus.CounterVec
	RunDuration   *prometheus.HistogramVec
	BatchDuration *prometheus.HistogramVec
	BatchRuns     *prometheus.HistogramVec
	Bankruptcies  *prometheus.CounterVec
	InflightRuns  prometheus.Gauge
}

// NewCollector creates the collectors and registers them on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		// RunsTotal tracks completed runs by mode and outcome.
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "runs_total",
			Help:      "Total simulation runs by mode and outcome.",
		}, []string{"mode", "outcome"}),

		// RunDuration tracks the wall time of a single run.
		RunDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "run_duration_seconds",
			Help:      "Duration of a single simulation run in seconds.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"mode"}),

		// BatchDuration tracks the wall time of a multi-run batch.
		BatchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "duration_seconds",
			Help:      "Duration of a multi-simulation batch in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		}, []string{"mode"}),

		// BatchRuns tracks how many runs each batch requested.
		BatchRuns: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "runs",
			Help:      "Number of runs per batch.",
			Buckets:   []float64{1, 10, 100, 500, 1000, 5000, 10000},
		}, []string{"mode"}),

		// Bankruptcies tracks runs that ended bankrupt.
		Bankruptcies: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "bankruptcies_total",
			Help:      "Total runs that ended bankrupt.",
		}, []string{"mode"}),

		InflightRuns: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "inflight_runs",
			Help:      "Runs currently executing.",
		}),
	}
}

// RunStarted marks a run as in flight
func (c *Collector) RunStarted() {
	if c == nil {
		return
	}
	c.InflightRuns.Inc()
}

// ObserveRun records a finished run
func (c *Collector) ObserveRun(mode, outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.InflightRuns.Dec()
	c.RunsTotal.WithLabelValues(mode, outcome).Inc()
	c.RunDuration.WithLabelValues(mode).Observe(d.Seconds())
	if outcome == OutcomeBankrupt {
		c.Bankruptcies.WithLabelValues(mode).Inc()
	}
}

// ObserveBatch records a finished batch
func (c *Collector) ObserveBatch(mode string, runs int, d time.Duration) {
	if c == nil {
		return
	}
	c.BatchDuration.WithLabelValues(mode).Observe(d.Seconds())
	c.BatchRuns.WithLabelValues(mode).Observe(float64(runs))
}
