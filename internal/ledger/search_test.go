package ledger_test

import (
	"testing"

	"github.com/existflow/timeline/internal/ledger"
	"github.com/existflow/timeline/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestParseQuery(t *testing.T) {
	q := ledger.ParseQuery("  Fred Born +  tom  ")
	assert.Equal(t, [][]string{{"fred", "born"}, {"tom"}}, q.Groups)
	assert.False(t, q.Blank())

	assert.True(t, ledger.ParseQuery("   ").Blank())
	assert.Empty(t, ledger.ParseQuery("+ +").Groups)
}

func TestMatchEventAndOr(t *testing.T) {
	ts := at(2000, 1, 1, 0, 0)
	tests := []struct {
		text string
		want bool
	}{
		{"a b", true},
		{"c", true},
		{"a", false},
	}
	for _, tt := range tests {
		ev := dated("1", ts, tt.text)
		assert.Equal(t, tt.want, ledger.MatchEvent("a b+c", ev), tt.text)
	}
}

func TestMatchEventFields(t *testing.T) {
	ev := dated("1", at(1966, 9, 18, 14, 30), "fred was born.", "normal tag", "@robotics_club")

	tests := []struct {
		query string
		want  bool
	}{
		{"FRED", true},
		{"september", true},
		{"1966 2:30 pm", true},
		{"robotics", true},
		{"normal tag", true},
		{"fred robotics", true},
		{"tom", false},
		{"fred tom", false},
		{"tom + born", true},
		{"+", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ledger.MatchEvent(tt.query, ev), tt.query)
	}

	assert.False(t, ledger.MatchEvent("today", model.TodayMarker(at(2024, 6, 1, 0, 0))))
}

func ids(events []model.Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.ID)
	}
	return out
}

func TestFilterEvents(t *testing.T) {
	pinnedOther := dated("pin", at(1990, 1, 1, 0, 0), "unrelated pinned")
	pinnedOther.Pinned = true
	pinnedMatch := dated("pinmatch", at(2010, 1, 1, 0, 0), "fred pinned")
	pinnedMatch.Pinned = true

	collection := []model.Event{
		dated("late", at(2020, 1, 1, 0, 0), "fred again"),
		pinnedOther,
		dated("early", at(1966, 9, 18, 14, 30), "fred was born."),
		pinnedMatch,
		dated("none", at(2000, 1, 1, 0, 0), "nothing"),
		model.TodayMarker(at(2024, 6, 1, 0, 0)),
	}

	tests := []struct {
		name   string
		filter ledger.Filter
		want   []string
	}{
		{
			name:   "blank query returns everything except today",
			filter: ledger.Filter{},
			want:   []string{"early", "pin", "none", "pinmatch", "late"},
		},
		{
			name:   "blank query with pins only",
			filter: ledger.Filter{PinsOnly: true},
			want:   []string{"pin", "pinmatch"},
		},
		{
			name:   "matches are unioned with pinned events",
			filter: ledger.Filter{Query: "fred"},
			want:   []string{"early", "pin", "pinmatch", "late"},
		},
		{
			name:   "pins only keeps pinned matches",
			filter: ledger.Filter{Query: "fred", PinsOnly: true},
			want:   []string{"pinmatch"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(ledger.FilterEvents(collection, tt.filter)))
		})
	}
}

func TestFilterEventsDateRange(t *testing.T) {
	collection := []model.Event{
		dated("a", at(1990, 1, 1, 0, 0), "a"),
		dated("b", at(2000, 1, 1, 0, 0), "b"),
		dated("c", at(2010, 1, 1, 0, 0), "c"),
	}
	from := at(2000, 1, 1, 0, 0)
	to := at(2010, 1, 1, 0, 0)

	got := ledger.FilterEvents(collection, ledger.Filter{From: &from, To: &to})
	assert.Equal(t, []string{"b", "c"}, ids(got))

	got = ledger.FilterEvents(collection, ledger.Filter{To: &from})
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestFilterEventsStableOnTies(t *testing.T) {
	ts := at(2000, 1, 1, 0, 0)
	collection := []model.Event{
		dated("first", ts, "x"),
		dated("second", ts, "x"),
		dated("third", ts, "x"),
	}
	assert.Equal(t, []string{"first", "second", "third"}, ids(ledger.FilterEvents(collection, ledger.Filter{})))
}

func TestBounds(t *testing.T) {
	_, _, ok := ledger.Bounds(nil)
	assert.False(t, ok)

	first, last, ok := ledger.Bounds([]model.Event{
		dated("b", at(2000, 1, 1, 0, 0), "b"),
		dated("a", at(1990, 1, 1, 0, 0), "a"),
		model.TodayMarker(at(2024, 6, 1, 0, 0)),
	})
	assert.True(t, ok)
	assert.Equal(t, at(1990, 1, 1, 0, 0), first)
	assert.Equal(t, at(2000, 1, 1, 0, 0), last)
}
