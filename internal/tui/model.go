package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/existflow/timeline/internal/ledger"
	"github.com/existflow/timeline/internal/logger"
	"github.com/existflow/timeline/internal/model"
)

// Pane represents which pane is focused
type Pane int

const (
	PaneTimeline Pane = iota
	PaneSidebar
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeEditText
	ModeEditDate
	ModeTags
	ModeAddTag
	ModeEditTag
	ModeFilter
	ModeConfirmDelete
	ModeUpcoming
	ModeStats
	ModeHelp
)

// Options configures the TUI
type Options struct {
	ConfirmDelete bool
}

// Model is the main TUI model
type Model struct {
	session *ledger.Session
	opts    Options

	rows []model.Event // Display view, today marker included
	now  time.Time

	// UI state
	width   int
	height  int
	pane    Pane
	mode    Mode
	cursor  int
	sideTop int // Scroll offset of the sidebar

	// Input
	input textinput.Model

	// Event being edited
	editID    string
	editText  string
	tagCursor int

	// Filter
	query       string
	pinsOnly    bool
	suggestions []string

	message string
}

// NewModel creates a new TUI model over an already populated session
func NewModel(session *ledger.Session, opts Options) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50

	m := Model{
		session: session,
		opts:    opts,
		pane:    PaneTimeline,
		mode:    ModeNormal,
		input:   ti,
		now:     session.Now(),
	}

	m.loadData()
	m.jumpToToday()
	logger.Debug("TUI model initialized", logger.F("events", session.Len()))
	return m
}

func (m *Model) filter() ledger.Filter {
	return ledger.Filter{Query: m.query, PinsOnly: m.pinsOnly}
}

// loadData rebuilds the visible rows, keeping the cursor on the same event when possible
func (m *Model) loadData() {
	selected := ""
	if ev := m.currentEvent(); ev != nil {
		selected = ev.ID
	}

	m.rows = m.session.Display(m.filter())

	if selected != "" {
		for i, ev := range m.rows {
			if ev.ID == selected {
				m.cursor = i
				return
			}
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) jumpToToday() {
	for i, ev := range m.rows {
		if ev.Today {
			m.cursor = i
			return
		}
	}
}

func (m *Model) currentEvent() *model.Event {
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		return &m.rows[m.cursor]
	}
	return nil
}

// editableEvent returns the selected event unless it is the today marker
func (m *Model) editableEvent() *model.Event {
	ev := m.currentEvent()
	if ev == nil || ev.Today {
		return nil
	}
	return ev
}
