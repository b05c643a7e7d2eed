package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/existflow/timeline/internal/ledger"
	"github.com/existflow/timeline/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *ledger.Session) {
	t.Helper()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	s := ledger.NewSession(ledger.WithClock(func() time.Time { return now }))
	require.NoError(t, s.Import([]model.Event{
		{ID: "fred", Timestamp: time.Date(1966, 9, 18, 14, 30, 0, 0, time.UTC), Text: "fred was born.", Tags: []string{"apple"}},
		{ID: "marie", Timestamp: time.Date(1980, 3, 7, 12, 0, 0, 0, time.UTC), Text: "marie rowe was born.", Tags: []string{"#start test_duration"}},
		{ID: "end", Timestamp: time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC), Text: "the end of test_duration.", Tags: []string{"#stop test_duration"}},
	}))
	return New(s), s
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 3, body["events"])
}

func TestListEvents(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/v1/events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	events := decode[[]model.Event](t, rec)
	require.Len(t, events, 3)
	assert.Equal(t, "fred", events[0].ID)

	rec = do(t, srv, http.MethodGet, "/api/v1/events?q=rowe%2Bapple", "")
	events = decode[[]model.Event](t, rec)
	assert.Len(t, events, 2)

	rec = do(t, srv, http.MethodGet, "/api/v1/events?from=1970-01-01&to=2000-01-01", "")
	events = decode[[]model.Event](t, rec)
	require.Len(t, events, 1)
	assert.Equal(t, "marie", events[0].ID)

	rec = do(t, srv, http.MethodGet, "/api/v1/events?today=true", "")
	events = decode[[]model.Event](t, rec)
	require.Len(t, events, 4)
	assert.True(t, events[3].Today)

	rec = do(t, srv, http.MethodGet, "/api/v1/events?from=someday", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListEventsSameDayRange(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/events", `{"text":"lunch","date":"2020-01-01T12:30"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	lunch := decode[model.Event](t, rec)

	rec = do(t, srv, http.MethodGet, "/api/v1/events?from=2020-01-01&to=2020-01-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	events := decode[[]model.Event](t, rec)
	require.Len(t, events, 2)
	assert.Equal(t, "end", events[0].ID)
	assert.Equal(t, lunch.ID, events[1].ID)

	rec = do(t, srv, http.MethodGet, "/api/v1/events?to=2020-01-01T11:00:00Z", "")
	events = decode[[]model.Event](t, rec)
	require.Len(t, events, 3)
	assert.Equal(t, "end", events[2].ID)
}

func TestListEventsRejectsBadPins(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, target := range []string{"/api/v1/events?pins=yes", "/api/v1/stats?pins=maybe"} {
		rec := do(t, srv, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Contains(t, decode[map[string]string](t, rec)["error"], "pins", target)
	}

	rec := do(t, srv, http.MethodGet, "/api/v1/events?pins=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]model.Event](t, rec))
}

func TestCreateEvent(t *testing.T) {
	srv, session := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/events",
		`{"text":"Went Fishing","date":"2023-07-04T06:15","tags":["@Tom"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ev := decode[model.Event](t, rec)
	assert.Equal(t, "went fishing", ev.Text)
	assert.Equal(t, []string{"@tom"}, ev.Tags)
	assert.False(t, ev.Draft)
	assert.Equal(t, 4, session.Len())

	rec = do(t, srv, http.MethodPost, "/api/v1/events", `{"text":"bad","tags":["#nope"]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid_special_tag", decode[map[string]string](t, rec)["code"])
	assert.Equal(t, 4, session.Len(), "a rejected draft is discarded")

	rec = do(t, srv, http.MethodPost, "/api/v1/events", `{"text":"  "}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "empty_text", decode[map[string]string](t, rec)["code"])
	assert.Equal(t, 4, session.Len())
}

func TestSaveRejectsReusedDurationName(t *testing.T) {
	srv, session := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/events",
		`{"text":"left home","date":"2021-01-01T00:00","tags":["#start trip"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	for _, tag := range []string{"#stop trip", "#stop test_duration"} {
		rec = do(t, srv, http.MethodPost, "/api/v1/events",
			`{"text":"back home","date":"2021-02-01T00:00","tags":["`+tag+`"]}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, tag)
		assert.Equal(t, "duration_name_collision", decode[map[string]string](t, rec)["code"], tag)
		assert.Equal(t, 4, session.Len(), "a rejected draft is discarded")
	}

	rec = do(t, srv, http.MethodPut, "/api/v1/events/fred",
		`{"text":"fred was born","date":"1966-09-18T14:30","tags":["apple","#stop trip"]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "duration_name_collision", decode[map[string]string](t, rec)["code"])
	fred, err := session.Get("fred")
	require.NoError(t, err)
	assert.Equal(t, []string{"apple"}, fred.Tags)

	rec = do(t, srv, http.MethodPut, "/api/v1/events/end",
		`{"text":"the end","date":"2020-01-01T10:00","tags":["#stop test_duration"]}`)
	assert.Equal(t, http.StatusOK, rec.Code, "an event keeps its own duration tag")
}

func TestUpdateAndDeleteEvent(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPut, "/api/v1/events/fred",
		`{"text":"Fred arrived","date":"1966-09-18T15:00","tags":["apple","@fred"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ev := decode[model.Event](t, rec)
	assert.Equal(t, "fred arrived", ev.Text)
	assert.Equal(t, 15, ev.Timestamp.Hour())

	rec = do(t, srv, http.MethodPut, "/api/v1/events/fred", `{"text":"x","date":"3000-01-01"}`)
	assert.Equal(t, "invalid_date", decode[map[string]string](t, rec)["code"])

	rec = do(t, srv, http.MethodDelete, "/api/v1/events/fred", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/events/fred", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[map[string]string](t, rec)["code"])
}

func TestTagEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/events/fred/tags", `{"tag":"@Bob"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"apple", "@bob"}, decode[map[string][]string](t, rec)["tags"])

	rec = do(t, srv, http.MethodPost, "/api/v1/events/fred/tags", `{"tag":"#start test_duration"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "duration_name_collision", decode[map[string]string](t, rec)["code"])

	rec = do(t, srv, http.MethodPut, "/api/v1/events/fred/tags", `{"old":"@bob","tag":"pear"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"apple", "pear"}, decode[map[string][]string](t, rec)["tags"])

	rec = do(t, srv, http.MethodDelete, "/api/v1/events/fred/tags?tag=pear", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"apple"}, decode[map[string][]string](t, rec)["tags"])

	rec = do(t, srv, http.MethodGet, "/api/v1/tags", "")
	assert.ElementsMatch(t, []string{"apple", "#start test_duration", "#stop test_duration"}, decode[[]string](t, rec))

	rec = do(t, srv, http.MethodGet, "/api/v1/suggestions/tags?event_id=marie&q=app", "")
	assert.Equal(t, []string{"apple"}, decode[[]string](t, rec))

	rec = do(t, srv, http.MethodGet, "/api/v1/suggestions/search?q=ro", "")
	assert.Contains(t, decode[[]string](t, rec), "rowe")
}

func TestPins(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/events/fred/pin", "")
	assert.Equal(t, map[string]bool{"pinned": true}, decode[map[string]bool](t, rec))
	do(t, srv, http.MethodPost, "/api/v1/events/marie/pin", "")

	rec = do(t, srv, http.MethodGet, "/api/v1/stats", "")
	stats := decode[ledger.Stats](t, rec)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Pinned)

	rec = do(t, srv, http.MethodGet, "/api/v1/events?pins=true", "")
	assert.Len(t, decode[[]model.Event](t, rec), 2)

	rec = do(t, srv, http.MethodDelete, "/api/v1/pins", "")
	assert.Equal(t, map[string]int{"cleared": 2}, decode[map[string]int](t, rec))

	rec = do(t, srv, http.MethodPost, "/api/v1/events/ghost/pin", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDurationsAndUpcoming(t *testing.T) {
	srv, session := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/v1/durations", "")
	spans := decode[[]SpanResponse](t, rec)
	require.Len(t, spans, 1)
	assert.Equal(t, "test_duration", spans[0].Name)
	assert.True(t, spans[0].Complete)
	assert.True(t, spans[0].Chronological)
	assert.NotEmpty(t, spans[0].Elapsed)

	rec = do(t, srv, http.MethodGet, "/api/v1/upcoming", "")
	up := decode[UpcomingResponse](t, rec)
	assert.Equal(t, "month-day", up.Mode)
	require.NotEmpty(t, up.Past)
	assert.Empty(t, up.Future)

	rec = do(t, srv, http.MethodGet, "/api/v1/upcoming?sort=absolute", "")
	assert.Equal(t, "absolute", decode[UpcomingResponse](t, rec).Mode)
	assert.Equal(t, ledger.SortMonthDay, session.SortMode(), "a query parameter does not change the shared mode")

	rec = do(t, srv, http.MethodGet, "/api/v1/upcoming?sort=sideways", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPut, "/api/v1/upcoming/sort", `{"mode":"absolute"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ledger.SortAbsolute, session.SortMode())
}

func TestAnniversaries(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/v1/events/fred/anniversaries?from=2024-01-01&to=2026-12-31", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode[[]OccurrenceResponse](t, rec)
	require.Len(t, out, 3)
	assert.Equal(t, 58, out[0].Years)
	assert.Equal(t, time.Date(2024, 9, 18, 14, 30, 0, 0, time.UTC), out[0].Date.UTC())
	assert.Equal(t, 60, out[2].Years)

	rec = do(t, srv, http.MethodGet, "/api/v1/events/fred/anniversaries", "")
	assert.Len(t, decode[[]OccurrenceResponse](t, rec), 10)
}

func TestExport(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/v1/export.ics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, rec.Body.String(), "RRULE:FREQ=YEARLY")
}
