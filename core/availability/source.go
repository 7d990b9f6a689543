package availability

import (
	"context"
	"fmt"

	"github.com/agendex/agendex/core/model"
)

// Source supplies the availability intervals of one named team. The engine
// does not parse file formats itself; sources hand it already-extracted
// records.
type Source interface {
	// Team returns the team name the records belong to.
	Team() string
	// Intervals returns every (person, start, end) record of the team.
	Intervals(ctx context.Context) ([]model.Interval, error)
}

// SourceUnavailableError reports a team source that could not be located or
// read.
type SourceUnavailableError struct {
	Team string
	Err  error
}

func (e *SourceUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("availability source %q unavailable: %v", e.Team, e.Err)
	}
	return fmt.Sprintf("availability source %q unavailable", e.Team)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// EmptyDatasetError reports that no person or interval data existed after
// processing all requested sources. Optimizing on an empty matrix is never
// meaningful, so the builder refuses to return one.
type EmptyDatasetError struct {
	Teams []string
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("no availability data found in sources %v", e.Teams)
}
