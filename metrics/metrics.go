// Package metrics provides optional Prometheus instrumentation for the
// saturation model and planner. The module performs no I/O: collectors are
// plain values a caller may register with their own prometheus.Registerer;
// nothing here starts a server or registers against a default registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collectors bundles the counters and histograms the core can optionally
// emit. A nil *Collectors disables instrumentation everywhere it's threaded
// through (buhlmann.WithMetrics, deco.WithMetrics).
type Collectors struct {
	StepsTotal        prometheus.Counter
	PlannerIterations *prometheus.CounterVec
	DecoTTSSeconds    prometheus.Histogram
	NDLMinutes        prometheus.Histogram
}

// NewCollectors builds a fresh set of collectors, unregistered.
func NewCollectors() *Collectors {
	return &Collectors{
		StepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "decompression_steps_total",
			Help: "Total number of Record/RecordTravel ticks applied to the saturation model.",
		}),
		PlannerIterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "deco_planner_iterations_total",
			Help: "Total number of deco planner decision-loop iterations, by action kind.",
		}, []string{"action"}),
		DecoTTSSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "deco_tts_seconds",
			Help:    "Time-to-surface of completed (non-simulated) deco runtime calculations.",
			Buckets: prometheus.ExponentialBuckets(30, 2, 12),
		}),
		NDLMinutes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ndl_minutes",
			Help:    "No-decompression-limit results, excluding the 99-minute cut-off.",
			Buckets: prometheus.LinearBuckets(1, 5, 20),
		}),
	}
}

// Describe and Collect implement prometheus.Collector so a *Collectors can be
// registered directly with a registry.
func (c *Collectors) Describe(ch chan<- *prometheus.Desc) {
	c.StepsTotal.Describe(ch)
	c.PlannerIterations.Describe(ch)
	c.DecoTTSSeconds.Describe(ch)
	c.NDLMinutes.Describe(ch)
}

func (c *Collectors) Collect(ch chan<- prometheus.Metric) {
	c.StepsTotal.Collect(ch)
	c.PlannerIterations.Collect(ch)
	c.DecoTTSSeconds.Collect(ch)
	c.NDLMinutes.Collect(ch)
}
