package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendex/agendex/core/factory"
)

type recordingSink struct {
	runs   []RunResult
	stages []StageDuration
	err    error
}

func (r *recordingSink) RecordRun(ev RunResult) error {
	r.runs = append(r.runs, ev)
	return r.err
}

func (r *recordingSink) RecordStageDuration(ev StageDuration) error {
	r.stages = append(r.stages, ev)
	return r.err
}

// runOnlySink has no stage support on purpose.
type runOnlySink struct{ runs int }

func (r *runOnlySink) RecordRun(RunResult) error { return nil }

func TestMultiSinkFansOut(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	m := NewMultiSink(a, b)

	ev := RunResult{RunID: "r1", OpenedSessions: 2, Status: "optimal", SolveTime: time.Second}
	require.NoError(t, m.RecordRun(ev))
	require.Len(t, a.runs, 1)
	require.Len(t, b.runs, 1)
	assert.Equal(t, ev, a.runs[0])

	require.NoError(t, m.RecordStageDuration(StageDuration{RunID: "r1", Stage: "generate"}))
	assert.Len(t, a.stages, 1)
	assert.Len(t, b.stages, 1)
}

func TestMultiSinkSkipsSinksWithoutStageSupport(t *testing.T) {
	plain := &runOnlySink{}
	rec := &recordingSink{}
	m := NewMultiSink(plain, rec)

	require.NoError(t, m.RecordStageDuration(StageDuration{Stage: "matrix"}))
	assert.Len(t, rec.stages, 1)
}

func TestMultiSinkReturnsFirstError(t *testing.T) {
	boom := errors.New("sink down")
	m := NewMultiSink(&recordingSink{err: boom}, &recordingSink{})
	assert.ErrorIs(t, m.RecordRun(RunResult{}), boom)
}

func TestNewMetricsSinkDefaultsToNop(t *testing.T) {
	sink, err := NewMetricsSink(nil)
	require.NoError(t, err)
	assert.IsType(t, NopSink{}, sink)
}

func TestNewMetricsSinkFromRegistry(t *testing.T) {
	require.NoError(t, RegisterMetricsSink("recording-test", func(conf map[string]any) (MetricsSink, error) {
		return &recordingSink{}, nil
	}))

	sink, err := NewMetricsSink([]factory.ModuleConfig{{Type: "recording-test"}})
	require.NoError(t, err)
	assert.IsType(t, &recordingSink{}, sink)

	multi, err := NewMetricsSink([]factory.ModuleConfig{{Type: "recording-test"}, {Type: "recording-test"}})
	require.NoError(t, err)
	assert.IsType(t, &MultiSink{}, multi)

	_, err = NewMetricsSink([]factory.ModuleConfig{{Type: "unknown"}})
	assert.Error(t, err)
}
