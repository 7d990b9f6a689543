package session

import (
	"fmt"
	"time"

	"github.com/agendex/agendex/core/model"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Params configures one catalog generation.
type Params struct {
	// StartDate and EndDate are inclusive ISO dates (YYYY-MM-DD).
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	// Weekdays selects qualifying days, 0 = Monday through 6 = Sunday.
	Weekdays []int `json:"weekdays"`
	// StartTimes lists the HH:MM slots opened on every qualifying day.
	StartTimes []string `json:"start_times"`
	// DurationHours is the fixed length of every session.
	DurationHours float64 `json:"duration_hours"`
	// DefaultCapacity is the participant cap applied to every session.
	DefaultCapacity int `json:"default_capacity"`
}

// ValidationError reports a malformed or inconsistent generation parameter.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// weekdayIndex maps Go's Sunday-based weekday to the 0=Monday convention
// used by Params.Weekdays.
func weekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Generate expands p into an ordered session catalog: day ascending, then
// start times in the order given. IDs are assigned in generation order,
// starting at session_1. An empty catalog is a valid outcome and is returned
// as an empty slice; callers must check for it explicitly.
func Generate(p Params, label PeriodLabeler) ([]model.Session, error) {
	if label == nil {
		label = DefaultPeriodLabeler
	}

	start, err := time.Parse(dateLayout, p.StartDate)
	if err != nil {
		return nil, &ValidationError{Field: "start_date", Value: p.StartDate, Reason: "use YYYY-MM-DD"}
	}
	end, err := time.Parse(dateLayout, p.EndDate)
	if err != nil {
		return nil, &ValidationError{Field: "end_date", Value: p.EndDate, Reason: "use YYYY-MM-DD"}
	}
	if start.After(end) {
		return nil, &ValidationError{Field: "start_date", Value: p.StartDate, Reason: "start date is after end date"}
	}
	if p.DurationHours <= 0 {
		return nil, &ValidationError{Field: "duration_hours", Value: fmt.Sprintf("%v", p.DurationHours), Reason: "must be positive"}
	}
	if p.DefaultCapacity <= 0 {
		return nil, &ValidationError{Field: "default_capacity", Value: fmt.Sprintf("%d", p.DefaultCapacity), Reason: "must be positive"}
	}

	starts := make([]time.Duration, len(p.StartTimes))
	for i, s := range p.StartTimes {
		tod, err := time.Parse(timeLayout, s)
		if err != nil {
			return nil, &ValidationError{Field: "start_times", Value: s, Reason: "use HH:MM"}
		}
		starts[i] = time.Duration(tod.Hour())*time.Hour + time.Duration(tod.Minute())*time.Minute
	}

	wanted := make(map[int]bool, len(p.Weekdays))
	for _, w := range p.Weekdays {
		if w < 0 || w > 6 {
			return nil, &ValidationError{Field: "weekdays", Value: fmt.Sprintf("%d", w), Reason: "must be in 0..6 (0 = Monday)"}
		}
		wanted[w] = true
	}

	duration := time.Duration(p.DurationHours * float64(time.Hour))

	catalog := []model.Session{}
	n := 1
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if !wanted[weekdayIndex(day.Weekday())] {
			continue
		}
		for _, tod := range starts {
			begin := day.Add(tod)
			catalog = append(catalog, model.Session{
				ID:       fmt.Sprintf("session_%d", n),
				Date:     day,
				Start:    begin,
				End:      begin.Add(duration),
				Capacity: p.DefaultCapacity,
				Period:   label(day),
			})
			n++
		}
	}
	return catalog, nil
}
