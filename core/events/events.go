// Package events defines the run lifecycle events published on the
// internal event bus while a planning run progresses.
package events

import "time"

// CatalogGenerated is published after the session generator finishes.
type CatalogGenerated struct {
	RunID    string
	Sessions int
	Time     time.Time
}

// MatrixBuilt is published after the availability matrix is derived.
type MatrixBuilt struct {
	RunID    string
	Sessions int
	People   int
	Time     time.Time
}

// RunCompleted is published when a run produced a schedule.
type RunCompleted struct {
	RunID      string
	Opened     int
	Unassigned int
	Duration   time.Duration
	Time       time.Time
}

// RunFailed is published when any stage aborts the run.
type RunFailed struct {
	RunID string
	Stage string
	Err   string
	Time  time.Time
}
