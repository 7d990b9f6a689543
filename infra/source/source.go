// Package source provides availability.Source implementations: inline
// static records from configuration and CSV files exported from
// spreadsheet tools.
package source

import (
	"context"

	"github.com/agendex/agendex/core/model"
)

// Static serves interval records held in memory, typically inlined in the
// configuration file or built up in tests.
type Static struct {
	TeamName string
	Records  []model.Interval
}

// NewStatic creates a static source for the given team.
func NewStatic(team string, records []model.Interval) *Static {
	return &Static{TeamName: team, Records: records}
}

// Team returns the team name.
func (s *Static) Team() string { return s.TeamName }

// Intervals returns the configured records.
func (s *Static) Intervals(context.Context) ([]model.Interval, error) {
	out := make([]model.Interval, len(s.Records))
	copy(out, s.Records)
	return out, nil
}
