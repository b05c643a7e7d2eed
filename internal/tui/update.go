package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/timeline/internal/ledger"
	"github.com/existflow/timeline/internal/logger"
	"github.com/existflow/timeline/internal/model"
)

// tickMsg is sent every second to move the today marker
type tickMsg time.Time

// Init initializes the model with a tick command
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = time.Time(msg)
		m.loadData()
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Handle mode-specific input
		switch m.mode {
		case ModeEditText, ModeEditDate:
			return m.updateEdit(msg)
		case ModeTags:
			return m.updateTags(msg)
		case ModeAddTag, ModeEditTag:
			return m.updateTagInput(msg)
		case ModeFilter:
			return m.updateFilter(msg)
		case ModeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case ModeUpcoming:
			return m.updateUpcoming(msg)
		case ModeHelp, ModeStats:
			m.mode = ModeNormal
			return m, nil
		}

		// Normal mode key handling
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		if m.pane == PaneTimeline {
			m.pane = PaneSidebar
		} else {
			m.pane = PaneTimeline
		}

	case key.Matches(msg, keys.Up):
		m.handleUp()

	case key.Matches(msg, keys.Down):
		m.handleDown()

	case key.Matches(msg, keys.Top):
		m.cursor = 0

	case key.Matches(msg, keys.Bottom):
		m.cursor = len(m.rows) - 1

	case key.Matches(msg, keys.Today):
		m.jumpToToday()

	case key.Matches(msg, keys.Add):
		return m.startAdd()

	case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
		return m.startEdit()

	case key.Matches(msg, keys.Tags):
		m.startTags()

	case key.Matches(msg, keys.Pin):
		m.handlePin()

	case key.Matches(msg, keys.PinsOnly):
		m.handlePinsOnly()

	case key.Matches(msg, keys.ClearPins):
		m.handleClearPins()

	case key.Matches(msg, keys.Delete):
		m.handleDelete()

	case key.Matches(msg, keys.Filter):
		return m.startFilter()

	case key.Matches(msg, keys.Escape):
		if m.query != "" || m.pinsOnly {
			m.query = ""
			m.pinsOnly = false
			m.loadData()
			m.message = "Filter cleared"
		}

	case key.Matches(msg, keys.Sort):
		mode := m.session.ToggleSortMode()
		m.message = "Upcoming sorted " + mode.Label()

	case key.Matches(msg, keys.Upcoming):
		m.mode = ModeUpcoming

	case key.Matches(msg, keys.Stats):
		m.mode = ModeStats

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
	}

	return m, nil
}

func (m *Model) handleUp() {
	if m.pane == PaneSidebar {
		if m.sideTop > 0 {
			m.sideTop--
		}
		return
	}
	if m.cursor > 0 {
		m.cursor--
	}
}

func (m *Model) handleDown() {
	if m.pane == PaneSidebar {
		m.sideTop++
		return
	}
	if m.cursor < len(m.rows)-1 {
		m.cursor++
	}
}

func (m *Model) selectID(id string) {
	for i, ev := range m.rows {
		if ev.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m Model) startAdd() (tea.Model, tea.Cmd) {
	draft := m.session.CreateDraft()
	m.editID = draft.ID
	m.editText = ""
	m.loadData()
	m.selectID(draft.ID)

	m.mode = ModeEditText
	m.input.SetValue("")
	m.input.Placeholder = "What happened?"
	m.input.Focus()
	return m, textinput.Blink
}

func (m Model) startEdit() (tea.Model, tea.Cmd) {
	ev := m.editableEvent()
	if ev == nil {
		return m, nil
	}
	m.editID = ev.ID
	m.mode = ModeEditText
	m.input.SetValue(ev.Text)
	m.input.Placeholder = "What happened?"
	m.input.Focus()
	m.input.CursorEnd()
	return m, textinput.Blink
}

func (m *Model) startTags() {
	ev := m.editableEvent()
	if ev == nil {
		return
	}
	m.editID = ev.ID
	m.tagCursor = 0
	m.mode = ModeTags
}

func (m *Model) handlePin() {
	ev := m.editableEvent()
	if ev == nil {
		return
	}
	pinned, err := m.session.TogglePin(ev.ID)
	if err != nil {
		m.message = fmt.Sprintf("Error: %v", err)
		return
	}
	if m.pinsOnly && m.session.PinnedCount() < 2 {
		m.pinsOnly = false
	}
	if pinned {
		m.message = "Pinned"
	} else {
		m.message = "Unpinned"
	}
	m.loadData()
}

func (m *Model) handlePinsOnly() {
	if m.session.PinnedCount() < 2 && !m.pinsOnly {
		m.message = "Pin at least two events to show pins only"
		return
	}
	m.pinsOnly = !m.pinsOnly
	m.loadData()
}

func (m *Model) handleClearPins() {
	if m.session.PinnedCount() < 2 {
		return
	}
	n := m.session.ClearPins()
	m.pinsOnly = false
	m.message = fmt.Sprintf("Cleared %d pins", n)
	m.loadData()
}

func (m *Model) handleDelete() {
	ev := m.editableEvent()
	if ev == nil {
		return
	}
	m.editID = ev.ID
	if m.opts.ConfirmDelete {
		m.mode = ModeConfirmDelete
		return
	}
	m.deleteEditing()
}

func (m *Model) deleteEditing() {
	if err := m.session.Delete(m.editID); err != nil {
		m.message = fmt.Sprintf("Error: %v", err)
	} else {
		m.message = "Event deleted"
		logger.Info("Event deleted", logger.F("id", m.editID))
	}
	m.editID = ""
	m.loadData()
}

func (m Model) startFilter() (tea.Model, tea.Cmd) {
	m.mode = ModeFilter
	m.input.SetValue(m.query)
	m.input.Placeholder = "search: words, + for or"
	m.input.Focus()
	m.input.CursorEnd()
	m.suggestions = m.session.SearchSuggestions(m.query)
	return m, textinput.Blink
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		if m.session.Abandon(m.editID) {
			m.message = "Draft discarded"
		}
		m.mode = ModeNormal
		m.loadData()
		return m, nil

	case key.Matches(msg, keys.Enter):
		if m.mode == ModeEditText {
			if strings.TrimSpace(m.input.Value()) == "" {
				m.message = model.ErrEmptyText.Error()
				return m, nil
			}
			m.editText = m.input.Value()
			ev, err := m.session.Get(m.editID)
			if err != nil {
				m.message = fmt.Sprintf("Error: %v", err)
				m.mode = ModeNormal
				return m, nil
			}
			m.mode = ModeEditDate
			m.message = ""
			m.input.SetValue(ev.Timestamp.Format(ledger.InputLayout))
			m.input.Placeholder = "YYYY-MM-DDTHH:MM"
			m.input.CursorEnd()
			return m, nil
		}

		ev, err := m.session.Get(m.editID)
		if err != nil {
			m.message = fmt.Sprintf("Error: %v", err)
			m.mode = ModeNormal
			return m, nil
		}
		saved, err := m.session.SaveInput(m.editID, m.editText, m.input.Value(), ev.Tags)
		if err != nil {
			m.message = fmt.Sprintf("Error: %v", err)
			return m, nil
		}
		logger.Info("Event saved", logger.F("id", saved.ID))
		m.mode = ModeNormal
		m.message = fmt.Sprintf("Saved: %s", saved.Text)
		m.loadData()
		m.selectID(saved.ID)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateTags(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ev, err := m.session.Get(m.editID)
	if err != nil {
		m.mode = ModeNormal
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Enter), key.Matches(msg, keys.Quit):
		m.mode = ModeNormal

	case key.Matches(msg, keys.Left):
		if m.tagCursor > 0 {
			m.tagCursor--
		}

	case key.Matches(msg, keys.Right):
		if m.tagCursor < len(ev.Tags)-1 {
			m.tagCursor++
		}

	case key.Matches(msg, keys.Add):
		m.mode = ModeAddTag
		m.input.SetValue("")
		m.input.Placeholder = "tag, @person, #start name or #stop name"
		m.input.Focus()
		m.suggestions = nil
		return m, textinput.Blink

	case key.Matches(msg, keys.Edit):
		if len(ev.Tags) == 0 {
			return m, nil
		}
		m.mode = ModeEditTag
		m.input.SetValue(ev.Tags[m.tagCursor])
		m.input.Focus()
		m.input.CursorEnd()
		m.suggestions = nil
		return m, textinput.Blink

	case key.Matches(msg, keys.Delete):
		if len(ev.Tags) == 0 {
			return m, nil
		}
		tags, err := m.session.DeleteTag(ev.ID, ev.Tags[m.tagCursor])
		if err != nil {
			m.message = fmt.Sprintf("Error: %v", err)
			return m, nil
		}
		if m.tagCursor >= len(tags) && m.tagCursor > 0 {
			m.tagCursor--
		}
		m.loadData()
	}

	return m, nil
}

func (m Model) updateTagInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeTags
		m.suggestions = nil
		return m, nil

	case key.Matches(msg, keys.Complete):
		if len(m.suggestions) > 0 {
			m.input.SetValue(m.suggestions[0])
			m.input.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, keys.Enter):
		ev, err := m.session.Get(m.editID)
		if err != nil {
			m.mode = ModeNormal
			return m, nil
		}

		var tags []string
		if m.mode == ModeAddTag {
			tags, err = m.session.AddTag(ev.ID, m.input.Value())
		} else {
			tags, err = m.session.EditTag(ev.ID, ev.Tags[m.tagCursor], m.input.Value())
		}
		if err != nil {
			m.message = fmt.Sprintf("Rejected: %v", err)
			return m, nil
		}

		m.message = ""
		m.mode = ModeTags
		m.suggestions = nil
		if m.tagCursor >= len(tags) {
			m.tagCursor = len(tags) - 1
		}
		m.loadData()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if ev, err := m.session.Get(m.editID); err == nil {
		m.suggestions = m.session.TagSuggestions(ev, m.input.Value())
	}
	return m, cmd
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.query = ""
		m.suggestions = nil
		m.loadData()
		return m, nil

	case key.Matches(msg, keys.Complete):
		if len(m.suggestions) > 0 {
			m.input.SetValue(m.suggestions[0])
			m.input.CursorEnd()
			m.query = m.input.Value()
			m.suggestions = nil
			m.loadData()
		}
		return m, nil

	case key.Matches(msg, keys.Enter):
		m.mode = ModeNormal
		m.suggestions = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	// Live filter as user types
	m.query = strings.ToLower(m.input.Value())
	m.suggestions = m.session.SearchSuggestions(m.query)
	m.loadData()
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	if key.Matches(msg, keys.ConfirmYes) {
		m.deleteEditing()
		return m, nil
	}
	m.message = "Delete cancelled"
	return m, nil
}

func (m Model) updateUpcoming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Sort) {
		m.session.ToggleSortMode()
		return m, nil
	}
	m.mode = ModeNormal
	return m, nil
}
