package ledger_test

import (
	"testing"
	"time"

	"github.com/existflow/timeline/internal/ledger"
	"github.com/existflow/timeline/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(id string, tags ...string) model.Event {
	return model.Event{
		ID:        id,
		Timestamp: time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC),
		Text:      "event " + id,
		Tags:      append([]string{}, tags...),
	}
}

func TestValidateAndAddTag(t *testing.T) {
	tests := []struct {
		name       string
		ev         model.Event
		collection []model.Event
		raw        string
		want       []string
		wantErr    error
	}{
		{
			name: "generic tag is lowercased and appended",
			ev:   event("a", "apple"),
			raw:  "  Normal Tag ",
			want: []string{"apple", "normal tag"},
		},
		{
			name: "person tag",
			ev:   event("a"),
			raw:  "@Fred",
			want: []string{"@fred"},
		},
		{
			name: "duration tag keeps spaces in its name",
			ev:   event("a"),
			raw:  "#START my trip",
			want: []string{"#start my trip"},
		},
		{
			name:    "unknown special tag",
			ev:      event("a"),
			raw:     "#begin trip",
			wantErr: model.ErrInvalidSpecialTag,
		},
		{
			name:    "bare at sign",
			ev:      event("a"),
			raw:     "@",
			wantErr: model.ErrInvalidPersonTag,
		},
		{
			name:    "generic tag with at sign",
			ev:      event("a"),
			raw:     "me@home",
			wantErr: model.ErrForbiddenCharacter,
		},
		{
			name:    "generic tag with hash",
			ev:      event("a"),
			raw:     "c#",
			wantErr: model.ErrForbiddenCharacter,
		},
		{
			name:    "empty tag",
			ev:      event("a"),
			raw:     "   ",
			wantErr: model.ErrEmptyTag,
		},
		{
			name:    "event already has a duration marker",
			ev:      event("a", "#start trip"),
			raw:     "#stop other",
			wantErr: model.ErrDuplicateDurationRole,
		},
		{
			name:       "duration name used elsewhere in the collection",
			ev:         event("a"),
			collection: []model.Event{event("b", "#start trip")},
			raw:        "#stop trip",
			wantErr:    model.ErrDurationNameCollision,
		},
		{
			name:       "different duration names do not collide",
			ev:         event("a"),
			collection: []model.Event{event("b", "#start trip")},
			raw:        "#stop school",
			want:       []string{"#stop school"},
		},
		{
			name: "case-insensitive duplicate is suppressed",
			ev:   event("a", "apple"),
			raw:  "APPLE",
			want: []string{"apple"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := append([]string{}, tt.ev.Tags...)
			got, err := ledger.ValidateAndAddTag(tt.ev, tt.raw, tt.collection)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, before, tt.ev.Tags, "input event must not be modified")
		})
	}
}

func TestValidateAndAddTagIsIdempotent(t *testing.T) {
	ev := event("a", "apple", "@fred", "#start trip")
	collection := []model.Event{ev, event("b", "#stop trip")}

	for _, tag := range ev.Tags {
		got, err := ledger.ValidateAndAddTag(ev, tag, collection)
		require.NoError(t, err, tag)
		assert.Equal(t, ev.Tags, got, tag)
	}
}

func TestReplaceTag(t *testing.T) {
	ev := event("a", "apple", "@fred", "pear")

	got, err := ledger.ReplaceTag(ev, "@fred", "@Tom", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "@tom", "pear"}, got)

	_, err = ledger.ReplaceTag(ev, "missing", "x", nil)
	assert.ErrorIs(t, err, model.ErrTagNotFound)

	_, err = ledger.ReplaceTag(ev, "apple", "a@b", nil)
	assert.ErrorIs(t, err, model.ErrForbiddenCharacter)
}

func TestReplaceDurationTagRequiresRemovalFirst(t *testing.T) {
	ev := event("a", "#start trip")
	collection := []model.Event{ev}

	_, err := ledger.ReplaceTag(ev, "#start trip", "#stop trip", collection)
	assert.ErrorIs(t, err, model.ErrDuplicateDurationRole)

	tags, err := ledger.DeleteTag(ev, "#start trip")
	require.NoError(t, err)
	ev.Tags = tags
	collection = []model.Event{ev}

	got, err := ledger.ValidateAndAddTag(ev, "#stop trip", collection)
	require.NoError(t, err)
	assert.Equal(t, []string{"#stop trip"}, got)
}

func TestDeleteTag(t *testing.T) {
	ev := event("a", "apple", "pear", "plum")

	got, err := ledger.DeleteTag(ev, "PEAR")
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "plum"}, got)
	assert.Equal(t, []string{"apple", "pear", "plum"}, ev.Tags)

	_, err = ledger.DeleteTag(ev, "kiwi")
	assert.ErrorIs(t, err, model.ErrTagNotFound)
}

func TestCheckTags(t *testing.T) {
	others := []model.Event{
		event("start", "#start trip"),
		event("self", "#stop trip"),
	}

	got, err := ledger.CheckTags("x", []string{"Apple", "apple", "@Fred"}, others)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "@fred"}, got)

	_, err = ledger.CheckTags("x", []string{"#start a", "#stop b"}, nil)
	assert.ErrorIs(t, err, model.ErrDuplicateDurationRole)

	_, err = ledger.CheckTags("x", []string{"#start trip"}, others)
	assert.ErrorIs(t, err, model.ErrDurationNameCollision)

	// The event's own stored tags are being replaced, so they do not count
	got, err = ledger.CheckTags("self", []string{"#stop trip", "note"}, others)
	require.NoError(t, err)
	assert.Equal(t, []string{"#stop trip", "note"}, got)

	_, err = ledger.CheckTags("x", []string{"ok", "#later"}, nil)
	assert.ErrorIs(t, err, model.ErrInvalidSpecialTag)
}

// Any sequence of accepted additions leaves at most one start and one stop per name.
func TestDurationGlobalUniqueness(t *testing.T) {
	collection := []model.Event{event("a"), event("b"), event("c"), event("d")}
	attempts := []struct {
		idx int
		raw string
	}{
		{0, "#start trip"},
		{1, "#stop trip"},
		{2, "#start trip"},
		{2, "#stop trip"},
		{3, "#start school"},
		{3, "#stop school"},
		{2, "#stop school"},
		{1, "#start other"},
		{2, "#start other"},
	}

	for _, a := range attempts {
		tags, err := ledger.ValidateAndAddTag(collection[a.idx], a.raw, collection)
		if err != nil {
			continue
		}
		collection[a.idx].Tags = tags
	}

	type key struct {
		name string
		role model.Role
	}
	seen := make(map[key]int)
	for _, ev := range collection {
		n := 0
		for _, raw := range ev.Tags {
			tag, err := model.ParseTag(raw)
			require.NoError(t, err)
			if tag.IsDuration() {
				n++
				seen[key{tag.Name, tag.Role}]++
			}
		}
		assert.LessOrEqual(t, n, 1, "event %s has more than one duration tag", ev.ID)
	}
	for k, n := range seen {
		assert.Equal(t, 1, n, "duration %q role %s appears %d times", k.name, k.role, n)
	}
	assert.Equal(t, []string{"#start trip"}, collection[0].Tags)
	assert.Equal(t, []string{"#start school"}, collection[3].Tags)
}
