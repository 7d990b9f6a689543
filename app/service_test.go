package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendex/agendex/config"
	"github.com/agendex/agendex/core/events"
	"github.com/agendex/agendex/core/factory"
	"github.com/agendex/agendex/core/session"
	"github.com/agendex/agendex/infra/history"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Generation: config.GenerationConfig{
			Params: session.Params{
				StartDate:       "2025-08-11",
				EndDate:         "2025-08-12",
				Weekdays:        []int{0, 1},
				StartTimes:      []string{"09:00"},
				DurationHours:   1,
				DefaultCapacity: 2,
			},
		},
		Teams: []factory.ModuleConfig{{
			Type: "static",
			Conf: map[string]any{
				"team": "support",
				"intervals": []map[string]any{
					{"person": "alice", "start": "2025-08-11 08:00", "end": "2025-08-11 12:00"},
					{"person": "bob", "start": "2025-08-11 09:00", "end": "2025-08-11 10:00"},
					{"person": "carol", "start": "2025-08-13 09:00", "end": "2025-08-13 10:00"},
				},
			},
		}},
		Logging: config.LoggingConfig{Level: "error"},
		History: config.HistoryConfig{
			Backend: "jsonl",
			Path:    filepath.Join(t.TempDir(), "runs.jsonl"),
		},
	}
}

func TestServicePlan(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer svc.Close()

	sub := svc.Bus().Subscribe()

	res, err := svc.Plan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalSessionsUsed)
	require.Len(t, res.ScheduledSessions, 1)
	assert.Equal(t, []string{"alice", "bob"}, res.ScheduledSessions[0].Participants)
	assert.Equal(t, []string{"carol"}, res.UnallocatedPeople)

	// Plan publishes progress events for each completed stage.
	var kinds []string
	for i := 0; i < 3; i++ {
		ev := <-sub
		switch ev.(type) {
		case events.CatalogGenerated:
			kinds = append(kinds, "catalog")
		case events.MatrixBuilt:
			kinds = append(kinds, "matrix")
		case events.RunCompleted:
			kinds = append(kinds, "completed")
		}
	}
	assert.Equal(t, []string{"catalog", "matrix", "completed"}, kinds)

	recs, err := svc.History().Query(context.Background(), history.Query{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "optimal", recs[0].Status)
	assert.Equal(t, 2, recs[0].Sessions)
	assert.Equal(t, 3, recs[0].People)
	assert.Equal(t, []string{"support"}, recs[0].Teams)
	assert.Equal(t, []string{"carol"}, recs[0].Result.UnallocatedPeople)
}

func TestServiceCatalog(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer svc.Close()

	catalog, err := svc.Catalog()
	require.NoError(t, err)
	require.Len(t, catalog, 2)
	assert.Equal(t, "session_1", catalog[0].ID)
}

func TestServiceLocaleLabeling(t *testing.T) {
	cfg := testConfig(t)
	cfg.Generation.Locale = "pt-BR"
	svc, err := New(cfg)
	require.NoError(t, err)
	defer svc.Close()

	catalog, err := svc.Catalog()
	require.NoError(t, err)
	assert.Equal(t, "agosto", catalog[0].Period)
}

func TestServiceUnknownLocaleFallsBack(t *testing.T) {
	cfg := testConfig(t)
	cfg.Generation.Locale = "not-a-tag"
	svc, err := New(cfg)
	require.NoError(t, err)
	defer svc.Close()

	catalog, err := svc.Catalog()
	require.NoError(t, err)
	assert.Equal(t, "August", catalog[0].Period)
}

func TestServicePlanEmptyCatalog(t *testing.T) {
	cfg := testConfig(t)
	cfg.Generation.Weekdays = []int{5, 6}
	svc, err := New(cfg)
	require.NoError(t, err)
	defer svc.Close()

	sub := svc.Bus().Subscribe()
	_, err = svc.Plan(context.Background())
	require.Error(t, err)

	ev := <-sub
	failed, ok := ev.(events.RunFailed)
	require.True(t, ok)
	assert.Equal(t, "generate", failed.Stage)
}

func TestServiceUnknownSourceType(t *testing.T) {
	cfg := testConfig(t)
	cfg.Teams = []factory.ModuleConfig{{Type: "carrier-pigeon"}}
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestServiceUnknownHistoryBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.History = config.HistoryConfig{Backend: "mysql"}
	_, err := New(cfg)
	assert.Error(t, err)
}
