package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/existflow/timeline/internal/calendar"
	"github.com/existflow/timeline/internal/ledger"
	"github.com/existflow/timeline/internal/logger"
	"github.com/existflow/timeline/internal/model"
	"github.com/labstack/echo/v4"
)

// EventRequest creates or overwrites an event. Date accepts RFC3339 or "2006-01-02T15:04".
type EventRequest struct {
	Text string   `json:"text"`
	Date string   `json:"date"`
	Tags []string `json:"tags"`
}

// TagRequest adds a tag, or replaces Old with Tag when Old is set
type TagRequest struct {
	Tag string `json:"tag"`
	Old string `json:"old,omitempty"`
}

// SortRequest changes the upcoming sort mode
type SortRequest struct {
	Mode string `json:"mode"`
}

// SpanResponse is a resolved duration
type SpanResponse struct {
	ledger.Span
	Complete      bool   `json:"complete"`
	Chronological bool   `json:"chronological"`
	Elapsed       string `json:"elapsed,omitempty"`
}

// UpcomingResponse holds both upcoming lists and the mode they are sorted by
type UpcomingResponse struct {
	Mode   string              `json:"mode"`
	Past   []ledger.Projection `json:"past"`
	Future []ledger.Projection `json:"future"`
}

// OccurrenceResponse is one anniversary of an event
type OccurrenceResponse struct {
	Date  time.Time `json:"date"`
	Years int       `json:"years"`
}

// handleListEvents returns the filtered chronological view
func (s *Server) handleListEvents(c echo.Context) error {
	f, err := s.filterFromQuery(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var events []model.Event
	if c.QueryParam("today") == "true" {
		events = s.session.Display(f)
	} else {
		events = s.session.View(f)
	}
	if events == nil {
		events = []model.Event{}
	}
	return c.JSON(http.StatusOK, events)
}

func (s *Server) handleGetEvent(c echo.Context) error {
	ev, err := s.session.Get(c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, ev)
}

// handleCreateEvent stages a draft and saves it, discarding the draft if the request is invalid
func (s *Server) handleCreateEvent(c echo.Context) error {
	var req EventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	draft := s.session.CreateDraft()
	if req.Date == "" {
		req.Date = draft.Timestamp.Format(ledger.InputLayout)
	}
	ev, err := s.session.SaveInput(draft.ID, req.Text, req.Date, req.Tags)
	if err != nil {
		s.session.Abandon(draft.ID)
		return errorResponse(c, err)
	}

	logger.Info("Event created", logger.F("id", ev.ID))
	return c.JSON(http.StatusCreated, ev)
}

func (s *Server) handleUpdateEvent(c echo.Context) error {
	var req EventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	ev, err := s.session.SaveInput(c.Param("id"), req.Text, req.Date, req.Tags)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, ev)
}

func (s *Server) handleDeleteEvent(c echo.Context) error {
	id := c.Param("id")
	if err := s.session.Delete(id); err != nil {
		return errorResponse(c, err)
	}
	logger.Info("Event deleted", logger.F("id", id))
	return c.NoContent(http.StatusNoContent)
}

// handleAnniversaries expands an event's yearly recurrence between from and to.
// Defaults to the next ten years.
func (s *Server) handleAnniversaries(c echo.Context) error {
	ev, err := s.session.Get(c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	now := s.session.Now()
	from := model.StartOfDay(now)
	to := from.AddDate(10, 0, 0)
	if v := c.QueryParam("from"); v != "" {
		if from, err = ledger.ParseTimestamp(v, now.Location()); err != nil {
			return errorResponse(c, err)
		}
	}
	if v := c.QueryParam("to"); v != "" {
		if to, err = ledger.ParseTimestamp(v, now.Location()); err != nil {
			return errorResponse(c, err)
		}
	}

	out := []OccurrenceResponse{}
	for _, at := range calendar.Occurrences(ev.Timestamp, from, to) {
		years := at.Year() - ev.Timestamp.Year()
		if years == 0 {
			continue
		}
		out = append(out, OccurrenceResponse{Date: at, Years: years})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleTogglePin(c echo.Context) error {
	pinned, err := s.session.TogglePin(c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"pinned": pinned})
}

func (s *Server) handleClearPins(c echo.Context) error {
	cleared := s.session.ClearPins()
	return c.JSON(http.StatusOK, map[string]int{"cleared": cleared})
}

func (s *Server) handleAddTag(c echo.Context) error {
	var req TagRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	tags, err := s.session.AddTag(c.Param("id"), req.Tag)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string][]string{"tags": tags})
}

func (s *Server) handleEditTag(c echo.Context) error {
	var req TagRequest
	if err := c.Bind(&req); err != nil || req.Old == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	tags, err := s.session.EditTag(c.Param("id"), req.Old, req.Tag)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string][]string{"tags": tags})
}

func (s *Server) handleDeleteTag(c echo.Context) error {
	tags, err := s.session.DeleteTag(c.Param("id"), c.QueryParam("tag"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string][]string{"tags": tags})
}

func (s *Server) handleListTags(c echo.Context) error {
	return c.JSON(http.StatusOK, s.session.Tags())
}

func (s *Server) handleDurations(c echo.Context) error {
	spans := ledger.SortedSpans(s.session.Durations())
	out := make([]SpanResponse, 0, len(spans))
	for _, span := range spans {
		resp := SpanResponse{Span: span, Complete: span.Complete(), Chronological: span.Chronological()}
		if d, ok := span.Elapsed(); ok {
			resp.Elapsed = d.String()
		}
		out = append(out, resp)
	}
	return c.JSON(http.StatusOK, out)
}

// handleUpcoming returns both preview lists. A sort query parameter applies to this
// response only; PUT /upcoming/sort changes the shared mode.
func (s *Server) handleUpcoming(c echo.Context) error {
	mode := s.session.SortMode()
	if v := c.QueryParam("sort"); v != "" {
		var err error
		if mode, err = ledger.ParseSortMode(v); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
	}

	up := ledger.ProjectAnniversaries(s.session.Events(), s.session.Now(), mode)
	return c.JSON(http.StatusOK, UpcomingResponse{
		Mode:   up.Mode.String(),
		Past:   orEmpty(up.Past),
		Future: orEmpty(up.Future),
	})
}

func (s *Server) handleSetSort(c echo.Context) error {
	var req SortRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	mode, err := ledger.ParseSortMode(req.Mode)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	s.session.SetSortMode(mode)
	return c.JSON(http.StatusOK, map[string]string{"mode": mode.String()})
}

func (s *Server) handleStats(c echo.Context) error {
	f, err := s.filterFromQuery(c)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, s.session.Stats(f))
}

func (s *Server) handleSearchSuggestions(c echo.Context) error {
	out := s.session.SearchSuggestions(c.QueryParam("q"))
	if out == nil {
		out = []string{}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleTagSuggestions(c echo.Context) error {
	ev, err := s.session.Get(c.QueryParam("event_id"))
	if err != nil {
		return errorResponse(c, err)
	}
	out := s.session.TagSuggestions(ev, c.QueryParam("q"))
	if out == nil {
		out = []string{}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleExport(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/calendar; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="timeline.ics"`)
	c.Response().WriteHeader(http.StatusOK)
	return calendar.Export(c.Response(), s.session, s.session.Now())
}

// filterFromQuery reads q, pins, from and to. A bare-date "to" covers that whole day.
func (s *Server) filterFromQuery(c echo.Context) (ledger.Filter, error) {
	f := ledger.Filter{Query: c.QueryParam("q")}
	if v := c.QueryParam("pins"); v != "" {
		pins, err := strconv.ParseBool(v)
		if err != nil {
			return ledger.Filter{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid pins value %q", v))
		}
		f.PinsOnly = pins
	}

	loc := s.session.Now().Location()
	if v := c.QueryParam("from"); v != "" {
		t, err := ledger.ParseTimestamp(v, loc)
		if err != nil {
			return ledger.Filter{}, err
		}
		f.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := ledger.ParseRangeEnd(v, loc)
		if err != nil {
			return ledger.Filter{}, err
		}
		f.To = &t
	}
	return f, nil
}

func orEmpty(items []ledger.Projection) []ledger.Projection {
	if items == nil {
		return []ledger.Projection{}
	}
	return items
}
