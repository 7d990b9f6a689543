// Package availability derives the binary person x session feasibility
// matrix the optimizer consumes. A cell is set iff at least one of the
// person's intervals fully contains the session window.
package availability

import (
	"context"

	"github.com/agendex/agendex/core/model"
)

// Matrix is the dense session x person feasibility table. It is built once
// per run and read-only afterwards. Sessions or people absent from the
// matrix are infeasible, never "unknown".
type Matrix struct {
	sessionIndex map[string]int
	personIndex  map[string]int
	sessions     []string
	people       []string
	data         [][]bool
}

// Build constructs the matrix for the given catalog from one or more team
// sources. People keep first-appearance order across sources. A source that
// fails aborts the build with a SourceUnavailableError; a run yielding no
// interval data at all aborts with an EmptyDatasetError.
//
// The containment scan is O(sessions x persons x intervals). That cost is
// inherent to the exhaustive check and acceptable at the scales this engine
// targets (hundreds of sessions, low hundreds of people).
func Build(ctx context.Context, catalog []model.Session, sources []Source) (*Matrix, error) {
	teams := make([]string, 0, len(sources))
	intervals := make(map[string][]model.Interval)
	var people []string

	for _, src := range sources {
		teams = append(teams, src.Team())
		recs, err := src.Intervals(ctx)
		if err != nil {
			return nil, &SourceUnavailableError{Team: src.Team(), Err: err}
		}
		for _, rec := range recs {
			if rec.Person == "" {
				continue
			}
			if _, seen := intervals[rec.Person]; !seen {
				people = append(people, rec.Person)
			}
			intervals[rec.Person] = append(intervals[rec.Person], rec)
		}
	}
	if len(people) == 0 {
		return nil, &EmptyDatasetError{Teams: teams}
	}

	m := &Matrix{
		sessionIndex: make(map[string]int, len(catalog)),
		personIndex:  make(map[string]int, len(people)),
		sessions:     make([]string, len(catalog)),
		people:       people,
		data:         make([][]bool, len(catalog)),
	}
	for i, s := range catalog {
		m.sessionIndex[s.ID] = i
		m.sessions[i] = s.ID
		m.data[i] = make([]bool, len(people))
	}
	for j, p := range people {
		m.personIndex[p] = j
	}

	for i, s := range catalog {
		for j, p := range people {
			for _, iv := range intervals[p] {
				if iv.Contains(s) {
					m.data[i][j] = true
					break
				}
			}
		}
	}
	return m, nil
}

// Available reports whether the person can attend the session. Unknown
// sessions or people are infeasible.
func (m *Matrix) Available(sessionID, person string) bool {
	i, ok := m.sessionIndex[sessionID]
	if !ok {
		return false
	}
	j, ok := m.personIndex[person]
	if !ok {
		return false
	}
	return m.data[i][j]
}

// Sessions returns the session IDs in catalog order.
func (m *Matrix) Sessions() []string {
	out := make([]string, len(m.sessions))
	copy(out, m.sessions)
	return out
}

// People returns the person names in first-appearance order.
func (m *Matrix) People() []string {
	out := make([]string, len(m.people))
	copy(out, m.people)
	return out
}

// NumSessions returns the number of session rows.
func (m *Matrix) NumSessions() int { return len(m.sessions) }

// NumPeople returns the number of person columns.
func (m *Matrix) NumPeople() int { return len(m.people) }
