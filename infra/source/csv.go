package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/agendex/agendex/core/model"
)

// timestampLayouts are tried in order when parsing interval bounds.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// CSV reads interval records for one team from a CSV file with a header
// row and person,start,end columns. Files exported from spreadsheet tools
// frequently carry a BOM or are UTF-16 encoded; both are handled.
type CSV struct {
	TeamName string
	Path     string
}

// NewCSV creates a CSV source for the given team and file.
func NewCSV(team, path string) *CSV {
	return &CSV{TeamName: team, Path: path}
}

// Team returns the team name.
func (s *CSV) Team() string { return s.TeamName }

// Intervals reads and parses the whole file.
func (s *CSV) Intervals(ctx context.Context) ([]model.Interval, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	br := bufio.NewReader(decodeReader(f))
	r := csv.NewReader(br)
	r.FieldsPerRecord = 3
	r.TrimLeadingSpace = true

	// Header row, mirroring the spreadsheet exports this replaces.
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}

	var out []model.Interval
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		start, err := parseTimestamp(rec[1])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", s.Path, line, err)
		}
		end, err := parseTimestamp(rec[2])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", s.Path, line, err)
		}
		out = append(out, model.Interval{
			Person: strings.TrimSpace(rec[0]),
			Start:  start,
			End:    end,
		})
	}
	return out, nil
}

// decodeReader strips a UTF-8 BOM and transparently decodes UTF-16 input.
func decodeReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}
