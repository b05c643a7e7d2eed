// Package mcpserver exposes the timeline to MCP clients over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/existflow/timeline/internal/ledger"
	"github.com/existflow/timeline/internal/logger"
	"github.com/existflow/timeline/internal/model"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Name is advertised to MCP clients
const Name = "timeline"

// Server registers the timeline tools on an MCP server and serializes their access to the session
type Server struct {
	mu      sync.Mutex
	session *ledger.Session
	mcp     *server.MCPServer
	tools   []string
}

// New builds the MCP server and registers every tool
func New(session *ledger.Session, version string) *Server {
	s := &Server{
		session: session,
		mcp:     server.NewMCPServer(Name, version, server.WithToolCapabilities(true)),
	}
	s.registerTools()
	return s
}

// ServeStdio blocks serving requests on stdin/stdout
func (s *Server) ServeStdio() error {
	logger.Info("MCP server starting", logger.F("tools", len(s.tools)))
	if err := server.ServeStdio(s.mcp); err != nil {
		return fmt.Errorf("failed to serve mcp: %w", err)
	}
	return nil
}

// Tools returns the registered tool names in registration order
func (s *Server) Tools() []string {
	return append([]string{}, s.tools...)
}

func (s *Server) add(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcp.AddTool(tool, handler)
	s.tools = append(s.tools, tool.Name)
}

func (s *Server) registerTools() {
	s.add(mcp.NewTool("search_events",
		mcp.WithDescription("Search the timeline. Words in a group must all match; groups separated by + are alternatives. Pinned events are always included unless pins_only is set."),
		mcp.WithString("query", mcp.Description("Search query, e.g. \"fred born+@marie\"")),
		mcp.WithBoolean("pins_only", mcp.Description("Only return pinned events")),
		mcp.WithString("from", mcp.Description("Inclusive lower bound, YYYY-MM-DD or RFC3339")),
		mcp.WithString("to", mcp.Description("Inclusive upper bound, YYYY-MM-DD (the whole day) or RFC3339")),
	), s.handleSearch)

	s.add(mcp.NewTool("upcoming_anniversaries",
		mcp.WithDescription("Upcoming yearly anniversaries of past events and events in the next 30 days, five of each."),
		mcp.WithString("sort", mcp.Description("month-day (calendar order) or absolute (soonest first); defaults to the current mode")),
	), s.handleUpcoming)

	s.add(mcp.NewTool("list_durations",
		mcp.WithDescription("Named durations resolved from #start and #stop tags"),
	), s.handleDurations)

	s.add(mcp.NewTool("timeline_stats",
		mcp.WithDescription("Event count, pin count and covered years for the events matching a query"),
		mcp.WithString("query", mcp.Description("Optional search query")),
	), s.handleStats)

	s.add(mcp.NewTool("add_event",
		mcp.WithDescription("Add an event to the timeline"),
		mcp.WithString("text", mcp.Required(), mcp.Description("What happened")),
		mcp.WithString("date", mcp.Description("When, YYYY-MM-DDTHH:MM or RFC3339; defaults to now")),
		mcp.WithArray("tags", mcp.Description("Tags: plain words, @person, \"#start name\" or \"#stop name\""), mcp.WithStringItems()),
	), s.handleAddEvent)

	s.add(mcp.NewTool("add_tag",
		mcp.WithDescription("Add a tag to an existing event"),
		mcp.WithString("event_id", mcp.Required(), mcp.Description("The event ID")),
		mcp.WithString("tag", mcp.Required(), mcp.Description("Tag to add")),
	), s.handleAddTag)

	s.add(mcp.NewTool("toggle_pin",
		mcp.WithDescription("Pin or unpin an event"),
		mcp.WithString("event_id", mcp.Required(), mcp.Description("The event ID")),
	), s.handleTogglePin)

	s.add(mcp.NewTool("delete_event",
		mcp.WithDescription("Delete an event"),
		mcp.WithString("event_id", mcp.Required(), mcp.Description("The event ID")),
	), s.handleDelete)
}

func (s *Server) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	f := ledger.Filter{Query: stringArg(args, "query")}
	if v, ok := args["pins_only"].(bool); ok {
		f.PinsOnly = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loc := s.session.Now().Location()
	if v := stringArg(args, "from"); v != "" {
		t, err := ledger.ParseTimestamp(v, loc)
		if err != nil {
			return toolError(err), nil
		}
		f.From = &t
	}
	if v := stringArg(args, "to"); v != "" {
		t, err := ledger.ParseRangeEnd(v, loc)
		if err != nil {
			return toolError(err), nil
		}
		f.To = &t
	}

	events := s.session.View(f)
	return jsonResult(map[string]any{"events": orEmpty(events), "count": len(events)})
}

func (s *Server) handleUpcoming(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mode := s.session.SortMode()
	if v := stringArg(req.GetArguments(), "sort"); v != "" {
		var err error
		if mode, err = ledger.ParseSortMode(v); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	up := ledger.ProjectAnniversaries(s.session.Events(), s.session.Now(), mode)
	return jsonResult(map[string]any{
		"mode":   up.Mode.String(),
		"past":   up.Past,
		"future": up.Future,
	})
}

func (s *Server) handleDurations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type span struct {
		ledger.Span
		Complete      bool `json:"complete"`
		Chronological bool `json:"chronological"`
	}
	spans := ledger.SortedSpans(s.session.Durations())
	out := make([]span, 0, len(spans))
	for _, sp := range spans {
		out = append(out, span{Span: sp, Complete: sp.Complete(), Chronological: sp.Chronological()})
	}
	return jsonResult(out)
}

func (s *Server) handleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return jsonResult(s.session.Stats(ledger.Filter{Query: stringArg(req.GetArguments(), "query")}))
}

func (s *Server) handleAddEvent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := req.GetArguments()

	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.session.CreateDraft()
	date := stringArg(args, "date")
	if date == "" {
		date = draft.Timestamp.Format(ledger.InputLayout)
	}
	ev, err := s.session.SaveInput(draft.ID, text, date, stringsArg(args, "tags"))
	if err != nil {
		s.session.Abandon(draft.ID)
		return toolError(err), nil
	}

	logger.Info("Event created", logger.F("id", ev.ID), logger.F("via", "mcp"))
	return jsonResult(ev)
}

func (s *Server) handleAddTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("event_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tag, err := req.RequireString("tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tags, err := s.session.AddTag(id, tag)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(map[string]any{"id": id, "tags": tags})
}

func (s *Server) handleTogglePin(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("event_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pinned, err := s.session.TogglePin(id)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(map[string]any{"id": id, "pinned": pinned})
}

func (s *Server) handleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("event_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.Delete(id); err != nil {
		return toolError(err), nil
	}
	logger.Info("Event deleted", logger.F("id", id), logger.F("via", "mcp"))
	return mcp.NewToolResultText(fmt.Sprintf("deleted %s", id)), nil
}

// toolError reports a rejected change to the client, prefixed with its stable code when it has one
func toolError(err error) *mcp.CallToolResult {
	if code := model.ErrorCode(err); code != "" {
		return mcp.NewToolResultError(code + ": " + err.Error())
	}
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

// stringsArg accepts a JSON array of strings or a single string
func stringsArg(args map[string]any, key string) []string {
	switch v := args[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v != "" {
			return []string{v}
		}
	}
	return nil
}

func orEmpty(events []model.Event) []model.Event {
	if events == nil {
		return []model.Event{}
	}
	return events
}
