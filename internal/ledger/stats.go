package ledger

import (
	"time"

	"github.com/existflow/timeline/internal/model"
)

// Stats summarizes a view of the timeline
type Stats struct {
	Total  int        `json:"total"`
	Pinned int        `json:"pinned"`
	First  *time.Time `json:"first,omitempty"`
	Last   *time.Time `json:"last,omitempty"`
	Years  int        `json:"years"` // Whole years between First and Last
}

// HasMultiplePins gates the pins-only and clear-pins controls
func (s Stats) HasMultiplePins() bool {
	return s.Pinned >= 2
}

// ComputeStats counts the events of a view and the span of time they cover
func ComputeStats(view []model.Event) Stats {
	var st Stats
	for _, ev := range view {
		if ev.Today {
			continue
		}
		st.Total++
		if ev.Pinned {
			st.Pinned++
		}
	}

	first, last, ok := Bounds(view)
	if !ok {
		return st
	}
	st.First = &first
	st.Last = &last
	st.Years = YearsBetween(first, last)
	return st
}

// YearsBetween returns the number of full years from a to b
func YearsBetween(a, b time.Time) int {
	sign := 1
	if b.Before(a) {
		a, b = b, a
		sign = -1
	}
	years := b.Year() - a.Year()
	anniversary := a.AddDate(years, 0, 0)
	if anniversary.After(b) {
		years--
	}
	return sign * years
}
