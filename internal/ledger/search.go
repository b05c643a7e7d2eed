package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/existflow/timeline/internal/model"
)

// Query is a parsed search string: groups are OR'ed, terms inside a group are AND'ed
type Query struct {
	Raw    string
	Groups [][]string
}

// ParseQuery splits q on '+' into groups and each group on whitespace into terms
func ParseQuery(q string) Query {
	query := Query{Raw: q}
	for _, group := range strings.Split(strings.ToLower(q), "+") {
		terms := strings.Fields(group)
		if len(terms) > 0 {
			query.Groups = append(query.Groups, terms)
		}
	}
	return query
}

// Blank reports whether the query string is empty or whitespace only
func (q Query) Blank() bool {
	return strings.TrimSpace(q.Raw) == ""
}

// Matches reports whether at least one group has all of its terms in ev's display date,
// text or tags. The today marker never matches.
func (q Query) Matches(ev model.Event) bool {
	if ev.Today {
		return false
	}

	date := strings.ToLower(ev.DisplayDate())
	text := strings.ToLower(ev.Text)
	tags := make([]string, len(ev.Tags))
	for i, t := range ev.Tags {
		tags[i] = strings.ToLower(t)
	}

	for _, group := range q.Groups {
		if groupMatches(group, date, text, tags) {
			return true
		}
	}
	return false
}

func groupMatches(terms []string, date, text string, tags []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) || strings.Contains(date, term) {
			continue
		}
		found := false
		for _, tag := range tags {
			if strings.Contains(tag, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// MatchEvent is a convenience wrapper around ParseQuery(query).Matches(ev)
func MatchEvent(query string, ev model.Event) bool {
	return ParseQuery(query).Matches(ev)
}

// Filter describes a view over the collection
type Filter struct {
	Query    string     `json:"query,omitempty"`
	PinsOnly bool       `json:"pins_only,omitempty"`
	From     *time.Time `json:"from,omitempty"` // Inclusive, nil means the earliest event
	To       *time.Time `json:"to,omitempty"`   // Inclusive, nil means the latest event
}

// FilterEvents returns the events visible under f, sorted ascending by timestamp.
// Pinned events surface even when they do not match, unless pins-only is set,
// in which case only pinned matches remain.
func FilterEvents(collection []model.Event, f Filter) []model.Event {
	q := ParseQuery(f.Query)
	seen := make(map[string]bool)
	var out []model.Event

	add := func(ev model.Event) {
		if seen[ev.ID] {
			return
		}
		seen[ev.ID] = true
		out = append(out, ev.Clone())
	}

	for _, ev := range collection {
		if ev.Today {
			continue
		}
		switch {
		case q.Blank():
			if !f.PinsOnly || ev.Pinned {
				add(ev)
			}
		case f.PinsOnly:
			if ev.Pinned && q.Matches(ev) {
				add(ev)
			}
		default:
			if q.Matches(ev) {
				add(ev)
			}
		}
	}
	if !q.Blank() && !f.PinsOnly {
		for _, ev := range collection {
			if ev.Pinned && !ev.Today {
				add(ev)
			}
		}
	}

	out = inRange(out, f.From, f.To)
	SortChronological(out)
	return out
}

func inRange(events []model.Event, from, to *time.Time) []model.Event {
	if from == nil && to == nil {
		return events
	}
	out := events[:0]
	for _, ev := range events {
		if from != nil && ev.Timestamp.Before(*from) {
			continue
		}
		if to != nil && ev.Timestamp.After(*to) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// Bounds returns the earliest and latest timestamps in the collection
func Bounds(collection []model.Event) (time.Time, time.Time, bool) {
	var first, last time.Time
	found := false
	for _, ev := range collection {
		if ev.Today {
			continue
		}
		if !found || ev.Timestamp.Before(first) {
			first = ev.Timestamp
		}
		if !found || ev.Timestamp.After(last) {
			last = ev.Timestamp
		}
		found = true
	}
	return first, last, found
}

// SortChronological orders events ascending by timestamp, keeping the input order on ties
func SortChronological(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
}
