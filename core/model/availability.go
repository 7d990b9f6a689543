package model

import "time"

// Interval declares that a person is reachable for any session whose window
// is fully contained in [Start, End]. A person may own zero or many
// intervals; they are allowed to overlap or be disjoint.
type Interval struct {
	Person string    `json:"person"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// Contains reports whether the session window fits entirely inside the
// interval. Boundaries are inclusive: an interval matching the session
// exactly still contains it.
func (i Interval) Contains(s Session) bool {
	return !i.Start.After(s.Start) && !s.End.After(i.End)
}
