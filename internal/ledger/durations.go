package ledger

import (
	"sort"
	"time"

	"github.com/existflow/timeline/internal/model"
)

// Span is a named duration resolved from its #start and #stop tags. Either side may be missing.
type Span struct {
	Name  string     `json:"name"`
	Start *time.Time `json:"start,omitempty"`
	Stop  *time.Time `json:"stop,omitempty"`
}

// Complete reports whether both ends are known
func (s Span) Complete() bool {
	return s.Start != nil && s.Stop != nil
}

// Chronological reports whether the stop does not precede the start. Incomplete spans
// are considered chronological. This is advisory only; resolution never rejects a span.
func (s Span) Chronological() bool {
	if !s.Complete() {
		return true
	}
	return !s.Stop.Before(*s.Start)
}

// Elapsed returns stop minus start when both ends are known
func (s Span) Elapsed() (time.Duration, bool) {
	if !s.Complete() {
		return 0, false
	}
	return s.Stop.Sub(*s.Start), true
}

// ResolveDurations maps every duration name in the collection to its earliest start and
// earliest stop timestamps
func ResolveDurations(collection []model.Event) map[string]Span {
	spans := make(map[string]Span)
	for _, ev := range collection {
		if ev.Today {
			continue
		}
		for _, raw := range ev.Tags {
			tag, err := model.ParseTag(raw)
			if err != nil || !tag.IsDuration() {
				continue
			}

			span, ok := spans[tag.Name]
			if !ok {
				span = Span{Name: tag.Name}
			}
			at := ev.Timestamp
			switch tag.Role {
			case model.RoleStart:
				if span.Start == nil || at.Before(*span.Start) {
					span.Start = &at
				}
			case model.RoleStop:
				if span.Stop == nil || at.Before(*span.Stop) {
					span.Stop = &at
				}
			}
			spans[tag.Name] = span
		}
	}
	return spans
}

// SortedSpans returns the spans ordered by name
func SortedSpans(spans map[string]Span) []Span {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
