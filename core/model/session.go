package model

import (
	"fmt"
	"time"
)

// Session is a candidate time slot produced by the generator. A session is
// immutable once generated and lives for a single planning run.
type Session struct {
	// ID is the stable label assigned in generation order ("session_<n>").
	ID string `json:"id"`
	// Date is the calendar day the session takes place on.
	Date time.Time `json:"date"`
	// Start and End bound the session window. End may fall on the next
	// calendar day when the slot crosses midnight.
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	// Capacity is the maximum number of participants.
	Capacity int `json:"capacity"`
	// Period tags the session for optional per-period caps, e.g. a month
	// label.
	Period string `json:"period"`
}

// Validate checks structural invariants of a generated session.
func (s Session) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("session id must not be empty")
	}
	if s.Capacity <= 0 {
		return fmt.Errorf("session %s: capacity must be positive", s.ID)
	}
	if !s.End.After(s.Start) {
		return fmt.Errorf("session %s: end must be after start", s.ID)
	}
	return nil
}

// Overlaps reports whether the windows of s and o intersect. Sessions that
// merely touch (one ends exactly when the other starts) do not overlap.
func (s Session) Overlaps(o Session) bool {
	start := s.Start
	if o.Start.After(start) {
		start = o.Start
	}
	end := s.End
	if o.End.Before(end) {
		end = o.End
	}
	return start.Before(end)
}
