package source

import (
	"fmt"

	"github.com/agendex/agendex/core/availability"
	"github.com/agendex/agendex/core/factory"
	"github.com/agendex/agendex/core/model"
)

// init registers the built-in source types.
func init() {
	_ = availability.RegisterSource("csv", func(conf map[string]any) (availability.Source, error) {
		var c struct {
			Team string `json:"team"`
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Team == "" || c.Path == "" {
			return nil, fmt.Errorf("csv source requires team and path")
		}
		return NewCSV(c.Team, c.Path), nil
	})

	_ = availability.RegisterSource("static", func(conf map[string]any) (availability.Source, error) {
		var c struct {
			Team      string `json:"team"`
			Intervals []struct {
				Person string `json:"person"`
				Start  string `json:"start"`
				End    string `json:"end"`
			} `json:"intervals"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Team == "" {
			return nil, fmt.Errorf("static source requires team")
		}
		recs := make([]model.Interval, 0, len(c.Intervals))
		for _, iv := range c.Intervals {
			start, err := parseTimestamp(iv.Start)
			if err != nil {
				return nil, fmt.Errorf("team %s: %w", c.Team, err)
			}
			end, err := parseTimestamp(iv.End)
			if err != nil {
				return nil, fmt.Errorf("team %s: %w", c.Team, err)
			}
			recs = append(recs, model.Interval{Person: iv.Person, Start: start, End: end})
		}
		return NewStatic(c.Team, recs), nil
	})
}
