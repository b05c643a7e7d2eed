package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/existflow/timeline/internal/model"
)

// Accepted date-time inputs, tried in order. Inputs without a zone are read in the caller's location.
var inputLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// InputLayout is the format used to prefill date inputs
const InputLayout = "2006-01-02T15:04"

// Range of years accepted from user input
const (
	MinYear = 1900
	MaxYear = 2100
)

// ParseTimestamp parses user supplied date-time text in loc
func ParseTimestamp(input string, loc *time.Location) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("%w: empty", model.ErrInvalidDate)
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range inputLayouts {
		t, err := time.ParseInLocation(layout, input, loc)
		if err != nil {
			continue
		}
		if t.Year() < MinYear || t.Year() > MaxYear {
			return time.Time{}, fmt.Errorf("%w: year %d outside %d-%d", model.ErrInvalidDate, t.Year(), MinYear, MaxYear)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", model.ErrInvalidDate, input)
}

// dateOnlyLayout is the bare-date input form, which names a whole day
const dateOnlyLayout = "2006-01-02"

// ParseRangeEnd parses the inclusive upper bound of a date range. A bare date covers the
// whole day, so it resolves to the last instant of that day.
func ParseRangeEnd(input string, loc *time.Location) (time.Time, error) {
	t, err := ParseTimestamp(input, loc)
	if err != nil {
		return time.Time{}, err
	}
	if _, err := time.Parse(dateOnlyLayout, strings.TrimSpace(input)); err == nil {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}
