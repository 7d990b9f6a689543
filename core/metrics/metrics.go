// Package metrics defines the sink interfaces recording optimization runs
// for observability. Sinks like the Prometheus and Influx implementations
// in infra/metrics can be combined with NewMultiSink; the factory helper
// returns a MultiSink automatically when multiple sinks are configured.
package metrics

import "time"

// RunResult summarizes one optimization run.
type RunResult struct {
	RunID          string
	Sessions       int
	People         int
	OpenedSessions int
	Unassigned     int
	Objective      float64
	Status         string
	SolveTime      time.Duration
	Time           time.Time
}

// MetricsSink records optimization runs.
type MetricsSink interface {
	RecordRun(ev RunResult) error
}

// StageDuration measures one pipeline stage of a run.
type StageDuration struct {
	RunID    string
	Stage    string
	Duration time.Duration
}

// StageRecorder is implemented by sinks able to record per-stage timings.
type StageRecorder interface {
	RecordStageDuration(ev StageDuration) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunResult) error               { return nil }
func (NopSink) RecordStageDuration(StageDuration) error { return nil }

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink over the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the run to all sinks, returning the first error.
func (m *MultiSink) RecordRun(ev RunResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordStageDuration forwards stage timings to sinks that support them.
func (m *MultiSink) RecordStageDuration(ev StageDuration) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(StageRecorder); ok {
			if err := rec.RecordStageDuration(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
