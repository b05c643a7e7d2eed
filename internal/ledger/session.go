package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/existflow/timeline/internal/logger"
	"github.com/existflow/timeline/internal/model"
	"github.com/google/uuid"
)

// Session owns the event collection for the lifetime of the process and keeps the
// derived caches (tags, durations, searchable words) in step with every mutation.
// A Session is not safe for concurrent use.
type Session struct {
	events   []model.Event
	sortMode SortMode
	now      func() time.Time
	newID    func() string

	tags      []string
	durations map[string]Span
	words     []string
}

// Option configures a Session
type Option func(*Session)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithIDs replaces the UUID generator
func WithIDs(gen func() string) Option {
	return func(s *Session) { s.newID = gen }
}

// WithSortMode sets the initial upcoming sort mode
func WithSortMode(mode SortMode) Option {
	return func(s *Session) { s.sortMode = mode }
}

// NewSession creates an empty session
func NewSession(opts ...Option) *Session {
	s := &Session{
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.refresh()
	return s
}

// Import adds complete events to the session, validating each one against the data model
// invariants. Events without an ID get one. Nothing is imported if any event is invalid.
func (s *Session) Import(events []model.Event) error {
	staged := append([]model.Event{}, s.events...)
	for i, ev := range events {
		ev = ev.Clone()
		if ev.ID == "" {
			ev.ID = s.newID()
		}
		ev.Text = strings.ToLower(strings.TrimSpace(ev.Text))
		if ev.Text == "" {
			return fmt.Errorf("event %d: %w", i+1, model.ErrEmptyText)
		}
		if ev.Timestamp.IsZero() {
			return fmt.Errorf("event %d: %w", i+1, model.ErrInvalidDate)
		}
		tags, err := CheckTags(ev.ID, ev.Tags, staged)
		if err != nil {
			return fmt.Errorf("event %d: %w", i+1, err)
		}
		ev.Tags = tags
		ev.Draft = false
		ev.Today = false
		staged = append(staged, ev)
	}

	s.events = staged
	s.refresh()
	logger.Debug("Events imported", logger.F("count", len(events)), logger.F("total", len(s.events)))
	return nil
}

// Len returns the number of events, drafts included
func (s *Session) Len() int {
	return len(s.events)
}

// Now returns the session clock's current time
func (s *Session) Now() time.Time {
	return s.now()
}

// Events returns a copy of the collection in storage order
func (s *Session) Events() []model.Event {
	out := make([]model.Event, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Clone()
	}
	return out
}

// Get returns the event with the given ID
func (s *Session) Get(id string) (model.Event, error) {
	idx := s.index(id)
	if idx < 0 {
		return model.Event{}, fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	return s.events[idx].Clone(), nil
}

// CreateDraft inserts an empty draft at the head of the collection, dated now
func (s *Session) CreateDraft() model.Event {
	ev := model.NewEvent(s.newID(), s.now())
	s.events = append([]model.Event{ev}, s.events...)
	logger.Debug("Draft created", logger.F("id", ev.ID))
	return ev.Clone()
}

// Save overwrites text, timestamp and tags of an event atomically and confirms a draft.
// A duration tag the event does not already carry must use a name no other event holds.
func (s *Session) Save(id, text string, at time.Time, tags []string) (model.Event, error) {
	idx := s.index(id)
	if idx < 0 {
		return model.Event{}, fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}

	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return model.Event{}, model.ErrEmptyText
	}
	if at.IsZero() {
		return model.Event{}, model.ErrInvalidDate
	}
	normalized, err := CheckTags(id, tags, s.events)
	if err != nil {
		return model.Event{}, err
	}
	if err := CheckNewDurations(s.events[idx], normalized, s.events); err != nil {
		return model.Event{}, err
	}

	ev := &s.events[idx]
	ev.Text = text
	ev.Timestamp = at
	ev.Tags = normalized
	ev.Draft = false
	s.refresh()

	logger.Debug("Event saved", logger.F("id", id), logger.F("tags", len(normalized)))
	return ev.Clone(), nil
}

// SaveInput is Save with the timestamp given as user input text
func (s *Session) SaveInput(id, text, dateInput string, tags []string) (model.Event, error) {
	at, err := ParseTimestamp(dateInput, s.now().Location())
	if err != nil {
		return model.Event{}, err
	}
	return s.Save(id, text, at, tags)
}

// Abandon discards a draft that was never saved. It reports whether anything was removed.
func (s *Session) Abandon(id string) bool {
	idx := s.index(id)
	if idx < 0 || !s.events[idx].Draft || strings.TrimSpace(s.events[idx].Text) != "" {
		return false
	}
	s.remove(idx)
	logger.Debug("Draft discarded", logger.F("id", id))
	return true
}

// Delete removes an event immediately
func (s *Session) Delete(id string) error {
	idx := s.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	s.remove(idx)
	logger.Debug("Event deleted", logger.F("id", id))
	return nil
}

// AddTag validates raw and appends it to the event's tags
func (s *Session) AddTag(id, raw string) ([]string, error) {
	return s.mutateTags(id, func(ev model.Event) ([]string, error) {
		return ValidateAndAddTag(ev, raw, s.events)
	})
}

// EditTag replaces old with raw on the event, keeping its position
func (s *Session) EditTag(id, old, raw string) ([]string, error) {
	return s.mutateTags(id, func(ev model.Event) ([]string, error) {
		return ReplaceTag(ev, old, raw, s.events)
	})
}

// DeleteTag removes a tag from the event
func (s *Session) DeleteTag(id, tag string) ([]string, error) {
	return s.mutateTags(id, func(ev model.Event) ([]string, error) {
		return DeleteTag(ev, tag)
	})
}

func (s *Session) mutateTags(id string, apply func(model.Event) ([]string, error)) ([]string, error) {
	idx := s.index(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	tags, err := apply(s.events[idx])
	if err != nil {
		logger.Debug("Tag change rejected", logger.F("id", id), logger.F("error", err))
		return nil, err
	}
	s.events[idx].Tags = tags
	s.refresh()
	return append([]string{}, tags...), nil
}

// TogglePin flips the pinned flag and returns the new value
func (s *Session) TogglePin(id string) (bool, error) {
	idx := s.index(id)
	if idx < 0 {
		return false, fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	s.events[idx].Pinned = !s.events[idx].Pinned
	return s.events[idx].Pinned, nil
}

// ClearPins unpins every event and returns how many were pinned
func (s *Session) ClearPins() int {
	n := 0
	for i := range s.events {
		if s.events[i].Pinned {
			s.events[i].Pinned = false
			n++
		}
	}
	return n
}

// PinnedCount returns the number of pinned events in the whole collection
func (s *Session) PinnedCount() int {
	n := 0
	for _, ev := range s.events {
		if ev.Pinned {
			n++
		}
	}
	return n
}

// View returns the filtered chronological view
func (s *Session) View(f Filter) []model.Event {
	return FilterEvents(s.events, f)
}

// Display returns the view with the today marker placed at now
func (s *Session) Display(f Filter) []model.Event {
	view := append(s.View(f), model.TodayMarker(s.now()))
	SortChronological(view)
	return view
}

// Upcoming projects anniversaries and near-term events using the session's sort mode
func (s *Session) Upcoming() Upcoming {
	return ProjectAnniversaries(s.events, s.now(), s.sortMode)
}

// SortMode returns the mode shared by both upcoming lists
func (s *Session) SortMode() SortMode {
	return s.sortMode
}

// SetSortMode changes the upcoming sort mode
func (s *Session) SetSortMode(mode SortMode) {
	s.sortMode = mode
}

// ToggleSortMode switches between month-day and absolute ordering
func (s *Session) ToggleSortMode() SortMode {
	s.sortMode = s.sortMode.Toggle()
	return s.sortMode
}

// Durations returns the resolved durations
func (s *Session) Durations() map[string]Span {
	out := make(map[string]Span, len(s.durations))
	for k, v := range s.durations {
		out[k] = v
	}
	return out
}

// Tags returns every distinct tag in the collection
func (s *Session) Tags() []string {
	return append([]string{}, s.tags...)
}

// SearchSuggestions proposes words to complete a search query
func (s *Session) SearchSuggestions(query string) []string {
	return SearchSuggestions(query, s.words)
}

// TagSuggestions proposes tags for an event being edited
func (s *Session) TagSuggestions(ev model.Event, query string) []string {
	return TagSuggestions(query, ev, s.events)
}

// Stats summarizes the view selected by f
func (s *Session) Stats(f Filter) Stats {
	return ComputeStats(s.View(f))
}

func (s *Session) index(id string) int {
	for i, ev := range s.events {
		if ev.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) remove(idx int) {
	s.events = append(s.events[:idx], s.events[idx+1:]...)
	s.refresh()
}

func (s *Session) refresh() {
	s.tags = AllTags(s.events)
	s.durations = ResolveDurations(s.events)
	s.words = SearchableWords(s.events)
}
