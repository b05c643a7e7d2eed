// Package ledger holds the rules that run over a timeline: tag validation,
// duration resolution, search, anniversary projection and the session that
// owns the event collection.
package ledger

import (
	"fmt"
	"strings"

	"github.com/existflow/timeline/internal/model"
)

// ValidateAndAddTag checks raw against the tag grammar, the per-event duration rule and the
// collection-wide duration name rule, and returns ev's tags with the canonical tag appended.
// ev and collection are never modified. collection may contain ev itself.
func ValidateAndAddTag(ev model.Event, raw string, collection []model.Event) ([]string, error) {
	tag, err := model.ParseTag(raw)
	if err != nil {
		return nil, err
	}

	canonical := tag.String()
	tags := append([]string{}, ev.Tags...)
	if ev.HasTag(canonical) {
		return tags, nil
	}

	if err := checkNewDuration(ev, tag, collection); err != nil {
		return nil, err
	}

	return append(tags, canonical), nil
}

// ReplaceTag edits old in place on ev. The replacement goes through the same checks as
// ValidateAndAddTag; old itself still counts towards the duration rules.
func ReplaceTag(ev model.Event, old, raw string, collection []model.Event) ([]string, error) {
	idx := indexOfTag(ev.Tags, old)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", model.ErrTagNotFound, old)
	}

	tag, err := model.ParseTag(raw)
	if err != nil {
		return nil, err
	}

	canonical := tag.String()
	tags := append([]string{}, ev.Tags...)
	if ev.HasTag(canonical) {
		return tags, nil
	}

	if err := checkNewDuration(ev, tag, collection); err != nil {
		return nil, err
	}

	tags[idx] = canonical
	return tags, nil
}

// DeleteTag returns ev's tags without tag
func DeleteTag(ev model.Event, tag string) ([]string, error) {
	idx := indexOfTag(ev.Tags, tag)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", model.ErrTagNotFound, tag)
	}
	tags := make([]string, 0, len(ev.Tags)-1)
	tags = append(tags, ev.Tags[:idx]...)
	return append(tags, ev.Tags[idx+1:]...), nil
}

// checkNewDuration applies the duration acceptance rules to a tag about to be added to ev
func checkNewDuration(ev model.Event, tag model.Tag, collection []model.Event) error {
	if !tag.IsDuration() {
		return nil
	}
	if _, ok := ev.DurationTag(); ok {
		return model.ErrDuplicateDurationRole
	}
	for _, other := range collection {
		for _, raw := range other.Tags {
			existing, err := model.ParseTag(raw)
			if err == nil && existing.IsDuration() && existing.Name == tag.Name {
				return fmt.Errorf("%w: %q", model.ErrDurationNameCollision, tag.Name)
			}
		}
	}
	return nil
}

// CheckTags normalizes a complete tag list for ev and verifies the data model invariants
// against the other events: valid grammar, at most one duration tag on the event and at
// most one #start and one #stop per duration name across the collection. Events in others
// with ev's ID are ignored, since their tags are the ones being replaced.
func CheckTags(id string, tags []string, others []model.Event) ([]string, error) {
	out := make([]string, 0, len(tags))
	var duration *model.Tag

	for _, raw := range tags {
		tag, err := model.ParseTag(raw)
		if err != nil {
			return nil, err
		}
		canonical := tag.String()
		if indexOfTag(out, canonical) >= 0 {
			continue
		}
		if tag.IsDuration() {
			if duration != nil {
				return nil, model.ErrDuplicateDurationRole
			}
			d := tag
			duration = &d
		}
		out = append(out, canonical)
	}

	if duration == nil {
		return out, nil
	}

	for _, other := range others {
		if other.ID == id {
			continue
		}
		if existing, ok := other.DurationTag(); ok && existing.Name == duration.Name && existing.Role == duration.Role {
			return nil, fmt.Errorf("%w: %q already has a %s", model.ErrDurationNameCollision, duration.Name, duration.Role)
		}
	}
	return out, nil
}

// CheckNewDurations applies the duration name rule to a full tag list being saved on stored:
// a duration tag stored does not already carry may not reuse a name held by any other event.
// tags must already be normalized by CheckTags.
func CheckNewDurations(stored model.Event, tags []string, collection []model.Event) error {
	for _, raw := range tags {
		if stored.HasTag(raw) {
			continue
		}
		tag, err := model.ParseTag(raw)
		if err != nil || !tag.IsDuration() {
			continue
		}
		if durationNameUsedBy(tag.Name, stored.ID, collection) {
			return fmt.Errorf("%w: %q", model.ErrDurationNameCollision, tag.Name)
		}
	}
	return nil
}

func durationNameUsedBy(name, exceptID string, collection []model.Event) bool {
	for _, ev := range collection {
		if ev.ID == exceptID {
			continue
		}
		if existing, ok := ev.DurationTag(); ok && existing.Name == name {
			return true
		}
	}
	return false
}

func indexOfTag(tags []string, tag string) int {
	for i, t := range tags {
		if strings.EqualFold(t, tag) {
			return i
		}
	}
	return -1
}
