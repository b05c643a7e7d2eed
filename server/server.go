package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/existflow/timeline/internal/ledger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server exposes one ledger session over HTTP. Every request holds the session lock.
type Server struct {
	mu      sync.Mutex
	session *ledger.Session
	echo    *echo.Echo
}

// New creates a new server over an already populated session
func New(session *ledger.Session) *Server {
	s := &Server{session: session}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	// API v1
	api := e.Group("/api/v1")
	api.Use(s.sessionLock)

	api.GET("/events", s.handleListEvents)
	api.POST("/events", s.handleCreateEvent)
	api.GET("/events/:id", s.handleGetEvent)
	api.PUT("/events/:id", s.handleUpdateEvent)
	api.DELETE("/events/:id", s.handleDeleteEvent)
	api.GET("/events/:id/anniversaries", s.handleAnniversaries)

	api.POST("/events/:id/pin", s.handleTogglePin)
	api.DELETE("/pins", s.handleClearPins)

	api.POST("/events/:id/tags", s.handleAddTag)
	api.PUT("/events/:id/tags", s.handleEditTag)
	api.DELETE("/events/:id/tags", s.handleDeleteTag)

	api.GET("/tags", s.handleListTags)
	api.GET("/durations", s.handleDurations)
	api.GET("/upcoming", s.handleUpcoming)
	api.PUT("/upcoming/sort", s.handleSetSort)
	api.GET("/stats", s.handleStats)
	api.GET("/suggestions/search", s.handleSearchSuggestions)
	api.GET("/suggestions/tags", s.handleTagSuggestions)
	api.GET("/export.ics", s.handleExport)

	s.echo = e
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	s.mu.Lock()
	events := s.session.Len()
	s.mu.Unlock()
	return c.JSON(http.StatusOK, map[string]any{"status": "ok", "events": events})
}
