package ledger

import (
	"strings"

	"github.com/existflow/timeline/internal/model"
)

// SuggestionLimit caps every suggestion list
const SuggestionLimit = 10

// AllTags returns every distinct tag in the collection, in first-seen order
func AllTags(collection []model.Event) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ev := range collection {
		for _, t := range ev.Tags {
			t = strings.ToLower(t)
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

// SearchableWords returns the distinct words (longer than one character) of every text
// and every whole tag, in first-seen order
func SearchableWords(collection []model.Event) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(w string) {
		if len(w) > 1 && !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	for _, ev := range collection {
		if ev.Today {
			continue
		}
		for _, w := range strings.Fields(strings.ToLower(ev.Text)) {
			add(w)
		}
		for _, t := range ev.Tags {
			add(strings.ToLower(t))
		}
	}
	return out
}

// SearchSuggestions filters words down to those containing query
func SearchSuggestions(query string, words []string) []string {
	query = strings.ToLower(query)
	if strings.TrimSpace(query) == "" {
		return nil
	}
	var out []string
	for _, w := range words {
		if strings.Contains(w, query) {
			out = append(out, w)
			if len(out) == SuggestionLimit {
				break
			}
		}
	}
	return out
}

// TagSuggestions proposes existing tags containing query that ev does not carry yet and,
// when query names an unused duration, the duration tag itself
func TagSuggestions(query string, ev model.Event, collection []model.Event) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var out []string
	for _, t := range AllTags(collection) {
		if strings.Contains(t, query) && !ev.HasTag(t) {
			out = append(out, t)
		}
	}

	if tag, err := model.ParseTag(query); err == nil && tag.IsDuration() && !durationNameUsed(tag.Name, collection) {
		out = append(out, tag.String())
	}

	if len(out) > SuggestionLimit {
		out = out[:SuggestionLimit]
	}
	return out
}

func durationNameUsed(name string, collection []model.Event) bool {
	for _, ev := range collection {
		for _, raw := range ev.Tags {
			if tag, err := model.ParseTag(raw); err == nil && tag.IsDuration() && tag.Name == name {
				return true
			}
		}
	}
	return false
}
