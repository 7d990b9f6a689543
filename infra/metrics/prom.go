package metrics

import (
	coremetrics "github.com/agendex/agendex/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records optimization runs in Prometheus metrics.
type PromSink struct {
	runs       *prometheus.CounterVec
	solveTime  prometheus.Histogram
	stageTime  *prometheus.HistogramVec
	opened     prometheus.Gauge
	unassigned prometheus.Gauge
	catalog    prometheus.Gauge
}

// NewPromSink registers run metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using the configured
// port.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optimization_runs_total",
		Help: "Total number of optimization runs by solver status",
	}, []string{"status"})
	solveTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimization_solve_seconds",
		Help:    "Wall-clock time spent in the solver",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	})
	stageTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planning_stage_seconds",
		Help:    "Duration of each planning pipeline stage",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
	opened := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "optimization_sessions_opened",
		Help: "Sessions opened by the most recent run",
	})
	unassigned := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "optimization_people_unassigned",
		Help: "People left unassigned by the most recent run",
	})
	catalog := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "optimization_catalog_sessions",
		Help: "Candidate sessions in the most recent catalog",
	})

	sink := &PromSink{runs: runs, solveTime: solveTime, stageTime: stageTime,
		opened: opened, unassigned: unassigned, catalog: catalog}
	for _, c := range []prometheus.Collector{runs, solveTime, stageTime, opened, unassigned, catalog} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return sink, nil
}

// RecordRun updates run counters and gauges.
func (s *PromSink) RecordRun(ev coremetrics.RunResult) error {
	s.runs.WithLabelValues(ev.Status).Inc()
	s.solveTime.Observe(ev.SolveTime.Seconds())
	s.opened.Set(float64(ev.OpenedSessions))
	s.unassigned.Set(float64(ev.Unassigned))
	s.catalog.Set(float64(ev.Sessions))
	return nil
}

// RecordStageDuration observes one pipeline stage.
func (s *PromSink) RecordStageDuration(ev coremetrics.StageDuration) error {
	s.stageTime.WithLabelValues(ev.Stage).Observe(ev.Duration.Seconds())
	return nil
}
