package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendex/agendex/core/model"
)

type stubSource struct {
	team      string
	intervals []model.Interval
	err       error
}

func (s stubSource) Team() string { return s.team }

func (s stubSource) Intervals(ctx context.Context) ([]model.Interval, error) {
	return s.intervals, s.err
}

func day(h, m int) time.Time {
	return time.Date(2025, 8, 11, h, m, 0, 0, time.UTC)
}

func slot(id string, startH, endH int) model.Session {
	return model.Session{ID: id, Date: day(0, 0), Start: day(startH, 0), End: day(endH, 0), Capacity: 2}
}

func TestBuildContainment(t *testing.T) {
	catalog := []model.Session{slot("session_1", 9, 10), slot("session_2", 14, 15)}
	src := stubSource{team: "support", intervals: []model.Interval{
		// Covers the morning slot with slack.
		{Person: "alice", Start: day(8, 0), End: day(11, 0)},
		// Matches the afternoon slot exactly; boundaries are inclusive.
		{Person: "bob", Start: day(14, 0), End: day(15, 0)},
		// Partial overlap only, must not qualify.
		{Person: "carol", Start: day(9, 30), End: day(12, 0)},
	}}

	m, err := Build(context.Background(), catalog, []Source{src})
	require.NoError(t, err)

	assert.True(t, m.Available("session_1", "alice"))
	assert.False(t, m.Available("session_2", "alice"))
	assert.True(t, m.Available("session_2", "bob"))
	assert.False(t, m.Available("session_1", "bob"))
	assert.False(t, m.Available("session_1", "carol"))
	assert.False(t, m.Available("session_2", "carol"))
}

func TestBuildMultipleIntervalsPerPerson(t *testing.T) {
	catalog := []model.Session{slot("session_1", 9, 10)}
	src := stubSource{team: "support", intervals: []model.Interval{
		{Person: "alice", Start: day(6, 0), End: day(7, 0)},
		{Person: "alice", Start: day(9, 0), End: day(10, 0)},
	}}

	m, err := Build(context.Background(), catalog, []Source{src})
	require.NoError(t, err)
	assert.True(t, m.Available("session_1", "alice"))
}

func TestBuildFirstAppearanceOrder(t *testing.T) {
	catalog := []model.Session{slot("session_1", 9, 10)}
	a := stubSource{team: "alpha", intervals: []model.Interval{
		{Person: "zoe", Start: day(9, 0), End: day(10, 0)},
		{Person: "adam", Start: day(9, 0), End: day(10, 0)},
	}}
	b := stubSource{team: "beta", intervals: []model.Interval{
		{Person: "adam", Start: day(8, 0), End: day(11, 0)},
		{Person: "mia", Start: day(9, 0), End: day(10, 0)},
	}}

	m, err := Build(context.Background(), catalog, []Source{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"zoe", "adam", "mia"}, m.People())
	assert.Equal(t, []string{"session_1"}, m.Sessions())
	assert.Equal(t, 3, m.NumPeople())
	assert.Equal(t, 1, m.NumSessions())
}

func TestBuildSourceFailure(t *testing.T) {
	catalog := []model.Session{slot("session_1", 9, 10)}
	boom := errors.New("file not found")
	src := stubSource{team: "support", err: boom}

	_, err := Build(context.Background(), catalog, []Source{src})
	var serr *SourceUnavailableError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "support", serr.Team)
	assert.ErrorIs(t, err, boom)
}

func TestBuildEmptyDataset(t *testing.T) {
	catalog := []model.Session{slot("session_1", 9, 10)}
	empty := stubSource{team: "ghost"}
	blank := stubSource{team: "blank", intervals: []model.Interval{
		{Person: "", Start: day(9, 0), End: day(10, 0)},
	}}

	_, err := Build(context.Background(), catalog, []Source{empty, blank})
	var derr *EmptyDatasetError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, []string{"ghost", "blank"}, derr.Teams)
}

func TestAvailableUnknownLookups(t *testing.T) {
	catalog := []model.Session{slot("session_1", 9, 10)}
	src := stubSource{team: "support", intervals: []model.Interval{
		{Person: "alice", Start: day(9, 0), End: day(10, 0)},
	}}

	m, err := Build(context.Background(), catalog, []Source{src})
	require.NoError(t, err)
	assert.False(t, m.Available("session_99", "alice"))
	assert.False(t, m.Available("session_1", "nobody"))
}
