package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/existflow/timeline/internal/model"
)

// SortMode selects how the upcoming lists are ordered
type SortMode int

const (
	SortMonthDay SortMode = iota // Soonest recurrence first, ignoring the year
	SortAbsolute                 // Oldest original event first
)

// Upcoming list limits
const (
	UpcomingLimit    = 5
	FutureWindowDays = 30
)

// String returns the name used in config files and query parameters
func (m SortMode) String() string {
	if m == SortAbsolute {
		return "absolute"
	}
	return "month-day"
}

// Label returns a human readable name
func (m SortMode) Label() string {
	if m == SortAbsolute {
		return "Absolute Chronological"
	}
	return "Month-Day"
}

// Toggle returns the other mode
func (m SortMode) Toggle() SortMode {
	if m == SortAbsolute {
		return SortMonthDay
	}
	return SortAbsolute
}

// ParseSortMode converts a string to a SortMode
func ParseSortMode(s string) (SortMode, error) {
	switch s {
	case "", "month-day", "monthday":
		return SortMonthDay, nil
	case "absolute":
		return SortAbsolute, nil
	default:
		return SortMonthDay, fmt.Errorf("unknown sort mode %q (want month-day or absolute)", s)
	}
}

// Projection is an event placed relative to "now"
type Projection struct {
	Event     model.Event `json:"event"`
	Next      time.Time   `json:"next"`            // Next occurrence (the event itself for future events)
	DaysUntil int         `json:"days_until"`      // Whole days from the start of today
	Years     int         `json:"years,omitempty"` // Years since the original event at Next
}

// Upcoming holds the two preview lists
type Upcoming struct {
	Mode   SortMode     `json:"-"`
	Past   []Projection `json:"past"`
	Future []Projection `json:"future"`
}

// ProjectAnniversaries computes the recurring anniversaries and the near-term future events
// relative to now, both sorted by mode and capped at UpcomingLimit
func ProjectAnniversaries(collection []model.Event, now time.Time, mode SortMode) Upcoming {
	today := model.StartOfDay(now)
	windowEnd := today.AddDate(0, 0, FutureWindowDays)

	var past, future []Projection
	for _, ev := range collection {
		if ev.Today || ev.Draft {
			continue
		}

		next := NextOccurrence(ev.Timestamp, today)
		days := daysBetween(today, next)
		if days >= 0 {
			past = append(past, Projection{
				Event:     ev.Clone(),
				Next:      next,
				DaysUntil: days,
				Years:     next.Year() - ev.Timestamp.Year(),
			})
		}

		if ev.Timestamp.After(today) && ev.Timestamp.Before(windowEnd) {
			future = append(future, Projection{
				Event:     ev.Clone(),
				Next:      ev.Timestamp,
				DaysUntil: daysBetween(today, ev.Timestamp),
			})
		}
	}

	sortProjections(past, mode)
	sortProjections(future, mode)

	return Upcoming{
		Mode:   mode,
		Past:   capProjections(past),
		Future: capProjections(future),
	}
}

// NextOccurrence returns the anniversary of original in today's year, or the following year
// if that moment is already before today. today must be a start of day.
func NextOccurrence(original, today time.Time) time.Time {
	next := time.Date(today.Year(), original.Month(), original.Day(),
		original.Hour(), original.Minute(), original.Second(), 0, today.Location())
	if next.Before(today) {
		next = next.AddDate(1, 0, 0)
	}
	return next
}

// daysBetween counts whole days from a to b, where a is a start of day and b is not before a.
// Calendar dates are compared so a DST transition does not shorten a day.
func daysBetween(a, b time.Time) int {
	b = b.In(a.Location())
	ca := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	cb := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(cb.Sub(ca).Hours() / 24)
}

func sortProjections(items []Projection, mode SortMode) {
	sort.SliceStable(items, func(i, j int) bool {
		if mode == SortAbsolute {
			return items[i].Event.Timestamp.Before(items[j].Event.Timestamp)
		}
		return items[i].DaysUntil < items[j].DaysUntil
	})
}

func capProjections(items []Projection) []Projection {
	if len(items) > UpcomingLimit {
		items = items[:UpcomingLimit]
	}
	if items == nil {
		return []Projection{}
	}
	return items
}
