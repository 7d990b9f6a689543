// Package history persists optimization run records so past schedules can
// be inspected after the fact.
package history

import (
	"context"
	"time"

	"github.com/agendex/agendex/core/model"
)

// RunRecord captures one completed optimization run.
type RunRecord struct {
	RunID     string        `json:"run_id"`
	Timestamp time.Time     `json:"timestamp"`
	Teams     []string      `json:"teams"`
	Sessions  int           `json:"sessions"`
	People    int           `json:"people"`
	Status    string        `json:"status"`
	Objective float64       `json:"objective"`
	Duration  time.Duration `json:"duration"`
	Result    model.Result  `json:"result"`
}

// Query filters record retrieval.
type Query struct {
	Start time.Time
	End   time.Time
	Limit int
}

// Store persists RunRecords and supports querying.
type Store interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q Query) ([]RunRecord, error)
	Close() error
}

// NopStore discards records; used when history is disabled.
type NopStore struct{}

func (NopStore) Append(context.Context, RunRecord) error           { return nil }
func (NopStore) Query(context.Context, Query) ([]RunRecord, error) { return nil, nil }
func (NopStore) Close() error                                      { return nil }
