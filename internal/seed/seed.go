// Package seed reads timelines from YAML files. Seeds are read-only: the session
// never writes back to them.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/existflow/timeline/internal/ledger"
	"github.com/existflow/timeline/internal/logger"
	"github.com/existflow/timeline/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sample []byte

// File is the on-disk layout of a seed
type File struct {
	Events []Record `yaml:"events"`
}

// Record is one event as written in a seed. Date accepts any input ledger.ParseTimestamp does.
type Record struct {
	ID     string   `yaml:"id,omitempty"`
	Date   string   `yaml:"date"`
	Text   string   `yaml:"text"`
	Tags   []string `yaml:"tags,omitempty"`
	Pinned bool     `yaml:"pinned,omitempty"`
}

// Parse decodes a seed document into events, reading dates without a zone in loc
func Parse(data []byte, loc *time.Location) ([]model.Event, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	events := make([]model.Event, 0, len(f.Events))
	for i, r := range f.Events {
		ts, err := ledger.ParseTimestamp(r.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("seed event %d: %w", i+1, err)
		}
		tags := r.Tags
		if tags == nil {
			tags = []string{}
		}
		events = append(events, model.Event{
			ID:        r.ID,
			Timestamp: ts,
			Text:      r.Text,
			Tags:      tags,
			Pinned:    r.Pinned,
		})
	}
	return events, nil
}

// Load reads a seed file
func Load(path string, loc *time.Location) ([]model.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed: %w", err)
	}
	return Parse(data, loc)
}

// Sample returns the built-in sample timeline
func Sample(loc *time.Location) []model.Event {
	events, err := Parse(sample, loc)
	if err != nil {
		panic(fmt.Sprintf("embedded sample is invalid: %v", err))
	}
	return events
}

// Populate imports the seed at path into s, or the built-in sample when path is empty
func Populate(s *ledger.Session, path string) error {
	loc := s.Now().Location()

	var events []model.Event
	if path == "" {
		events = Sample(loc)
	} else {
		var err error
		events, err = Load(path, loc)
		if err != nil {
			return err
		}
	}

	if err := s.Import(events); err != nil {
		return fmt.Errorf("failed to import seed: %w", err)
	}

	source := path
	if source == "" {
		source = "sample"
	}
	logger.Info("Timeline loaded", logger.F("source", source), logger.F("events", len(events)))
	return nil
}

// Marshal writes events in seed layout, oldest first
func Marshal(events []model.Event) ([]byte, error) {
	view := append([]model.Event{}, events...)
	ledger.SortChronological(view)

	f := File{Events: make([]Record, 0, len(view))}
	for _, ev := range view {
		if ev.Today || ev.Draft {
			continue
		}
		f.Events = append(f.Events, Record{
			ID:     ev.ID,
			Date:   ev.Timestamp.Format(time.RFC3339),
			Text:   ev.Text,
			Tags:   ev.Tags,
			Pinned: ev.Pinned,
		})
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal seed: %w", err)
	}
	return data, nil
}
