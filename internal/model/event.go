package model

import (
	"strings"
	"time"
)

// TodayID is the ID of the synthetic "today" marker row
const TodayID = "today"

// DisplayLayout is the date format shown next to every event and matched by search
const DisplayLayout = "January 2, 2006 3:04 PM"

// Event represents a single dated journal entry
type Event struct {
	ID        string    `json:"id" yaml:"id,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Text      string    `json:"text" yaml:"text"`
	Tags      []string  `json:"tags" yaml:"tags,omitempty"`
	Pinned    bool      `json:"pinned" yaml:"pinned,omitempty"`
	Draft     bool      `json:"draft,omitempty" yaml:"-"` // Created but not yet confirmed
	Today     bool      `json:"today,omitempty" yaml:"-"` // Synthetic marker, never stored
}

// NewEvent creates a new draft event with defaults
func NewEvent(id string, at time.Time) Event {
	return Event{
		ID:        id,
		Timestamp: at.Truncate(time.Minute),
		Tags:      []string{},
		Draft:     true,
	}
}

// TodayMarker returns the synthetic row representing the current moment
func TodayMarker(now time.Time) Event {
	return Event{
		ID:        TodayID,
		Timestamp: now,
		Text:      "today",
		Tags:      []string{},
		Today:     true,
	}
}

// Clone returns a copy that shares no slices with e
func (e Event) Clone() Event {
	c := e
	c.Tags = append([]string{}, e.Tags...)
	return c
}

// DisplayDate formats the timestamp the way it is shown and searched
func (e Event) DisplayDate() string {
	return e.Timestamp.Format(DisplayLayout)
}

// HasTag reports whether the event already carries tag (case-insensitive)
func (e Event) HasTag(tag string) bool {
	tag = strings.ToLower(tag)
	for _, t := range e.Tags {
		if strings.ToLower(t) == tag {
			return true
		}
	}
	return false
}

// DurationTag returns the event's duration marker, if any
func (e Event) DurationTag() (Tag, bool) {
	for _, raw := range e.Tags {
		t, err := ParseTag(raw)
		if err == nil && t.Kind == KindDuration {
			return t, true
		}
	}
	return Tag{}, false
}

// StartOfDay returns midnight of t in t's location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsFuture returns true if the event happens after the start of today
func (e Event) IsFuture(now time.Time) bool {
	return e.Timestamp.After(StartOfDay(now))
}
