package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/timeline/internal/ledger"
	"github.com/existflow/timeline/internal/model"
)

const sidebarWidth = 36

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	timeline := m.renderTimeline()
	sidebar := m.renderSidebar()
	statusBar := m.renderStatusBar()

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, timeline, sidebar)

	var modal string
	switch m.mode {
	case ModeEditText, ModeEditDate:
		modal = m.renderEditModal()
	case ModeTags, ModeAddTag, ModeEditTag:
		modal = m.renderTagsModal()
	case ModeFilter:
		modal = m.renderFilterModal()
	case ModeConfirmDelete:
		modal = m.renderConfirmModal()
	case ModeUpcoming:
		modal = m.renderUpcomingModal()
	case ModeStats:
		modal = m.renderStatsModal()
	case ModeHelp:
		modal = m.renderHelp()
	}
	if modal != "" {
		mainContent = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			modal,
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	// Combine with status bar
	return lipgloss.JoinVertical(lipgloss.Left, mainContent, statusBar)
}

func (m Model) renderTimeline() string {
	width := m.width - sidebarWidth - 2
	height := m.height - 4
	var s string

	header := "Timeline"
	if m.query != "" {
		header += fmt.Sprintf("  /%s", m.query)
	}
	if m.pinsOnly {
		header += "  [pins only]"
	}
	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(header) + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", max(width-4, 0))) + "\n"

	if len(m.rows) <= 1 && m.query != "" {
		s += HelpStyle.Render("  No events match. Esc clears the search.") + "\n"
	}

	// Keep the cursor inside the visible window
	visible := max(height-3, 1)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(m.rows))

	for i := start; i < end; i++ {
		s += m.renderRow(i, width) + "\n"
	}

	return TimelineStyle.Width(width).Height(m.height - 2).Render(s)
}

func (m Model) renderRow(i, width int) string {
	ev := m.rows[i]
	selected := i == m.cursor && m.pane == PaneTimeline

	cursor := "  "
	if selected {
		cursor = "❯ "
	}

	if ev.Today {
		line := fmt.Sprintf("── Today · %s ──", m.now.Format(model.DisplayLayout))
		if i < len(m.rows)-1 {
			line += " To the future..."
		}
		return cursor + TodayStyle.Render(line)
	}

	pin := " "
	if ev.Pinned {
		pin = PinStyle.Render("★")
	}

	date := DateStyle.Render(fmt.Sprintf("%-28s", ev.DisplayDate()))
	textWidth := max(width-40, 10)

	var text string
	switch {
	case ev.Draft && ev.Text == "":
		text = DraftStyle.Render("(new event)")
	case ev.IsFuture(m.now):
		text = FutureStyle.Render(truncate(ev.Text, textWidth))
	default:
		text = truncate(ev.Text, textWidth)
	}

	tags := make([]string, 0, len(ev.Tags))
	for _, t := range ev.Tags {
		tags = append(tags, FormatTag(t))
	}

	line := cursor + pin + " " + date + text
	if len(tags) > 0 {
		line += " " + strings.Join(tags, " ")
	}
	if selected {
		return EventItemSelectedStyle.Render(line)
	}
	return EventItemStyle.Render(line)
}

func (m Model) renderSidebar() string {
	var lines []string

	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Timeline"))
	lines = append(lines, HelpStyle.Render(m.now.Format("Mon Jan 2 15:04:05")))
	lines = append(lines, "")

	st := m.session.Stats(m.filter())
	lines = append(lines, statsLine(st))
	lines = append(lines, "")

	up := m.session.Upcoming()
	lines = append(lines, SectionStyle.Render("Anniversaries ("+up.Mode.Label()+")"))
	if len(up.Past) == 0 {
		lines = append(lines, HelpStyle.Render("  none"))
	}
	for _, p := range up.Past {
		lines = append(lines, fmt.Sprintf("  %s %s", p.Next.Format("Jan 02"), truncate(p.Event.Text, sidebarWidth-12)))
		lines = append(lines, HelpStyle.Render("    "+anniversaryLabel(p)))
	}
	lines = append(lines, "")

	lines = append(lines, SectionStyle.Render("Coming up"))
	if len(up.Future) == 0 {
		lines = append(lines, HelpStyle.Render("  nothing in the next 30 days"))
	}
	for _, p := range up.Future {
		lines = append(lines, "  "+truncate(p.Event.Text, sidebarWidth-6))
		lines = append(lines, HelpStyle.Render("    "+relative(p.Next, m.now)))
	}
	lines = append(lines, "")

	lines = append(lines, SectionStyle.Render("Durations"))
	spans := ledger.SortedSpans(m.session.Durations())
	if len(spans) == 0 {
		lines = append(lines, HelpStyle.Render("  none"))
	}
	for _, span := range spans {
		lines = append(lines, "  "+TagDurationStyle.Render(truncate(span.Name, sidebarWidth-6)))
		lines = append(lines, HelpStyle.Render("    "+spanLabel(span)))
	}

	top := min(m.sideTop, max(len(lines)-1, 0))
	return SidebarStyle.Width(sidebarWidth).Height(m.height - 2).Render(strings.Join(lines[top:], "\n"))
}

func statsLine(st ledger.Stats) string {
	if st.Total == 0 {
		return "No events"
	}
	return fmt.Sprintf("%d events spanning %d years\n(%s - %s)",
		st.Total, st.Years, st.First.Format("January 2, 2006"), st.Last.Format("January 2, 2006"))
}

func (m Model) renderStatusBar() string {
	if m.mode == ModeFilter {
		return StatusBarStyle.Width(m.width).Render("/" + m.input.View())
	}

	help := "a:add  e:edit  t:tags  p:pin  d:del  /:search  u:upcoming  i:stats  s:sort  ?:help  q:quit"
	if m.session.PinnedCount() >= 2 {
		help = "P:pins only  C:clear pins  " + help
	}
	if m.message != "" {
		help = m.message
	}
	return StatusBarStyle.Width(m.width).Render(help)
}

func (m Model) renderEditModal() string {
	title := "Edit Event"
	step := "Text"
	if ev, err := m.session.Get(m.editID); err == nil && ev.Draft {
		title = "New Event"
	}
	if m.mode == ModeEditDate {
		step = "Date and time"
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "  " + HelpStyle.Render(step) + "\n\n"
	content += m.input.View() + "\n\n"
	if m.message != "" {
		content += ErrorStyle.Render(m.message) + "\n\n"
	}
	content += HelpStyle.Render("Enter:next  Esc:cancel")
	return ModalStyle.Width(60).Render(content)
}

func (m Model) renderTagsModal() string {
	ev, err := m.session.Get(m.editID)
	if err != nil {
		return ""
	}

	content := lipgloss.NewStyle().Bold(true).Render("Tags") + "  " + HelpStyle.Render(truncate(ev.Text, 40)) + "\n\n"
	if len(ev.Tags) == 0 {
		content += HelpStyle.Render("No tags yet") + "\n"
	}
	var parts []string
	for i, t := range ev.Tags {
		if i == m.tagCursor && m.mode == ModeTags {
			parts = append(parts, TagSelectedStyle.Render("["+t+"]"))
			continue
		}
		parts = append(parts, FormatTag(t))
	}
	content += strings.Join(parts, " ") + "\n\n"

	if m.mode == ModeAddTag || m.mode == ModeEditTag {
		content += m.input.View() + "\n"
		for _, s := range m.suggestions {
			content += HelpStyle.Render("  "+s) + "\n"
		}
		content += "\n"
	}
	if m.message != "" {
		content += ErrorStyle.Render(m.message) + "\n\n"
	}

	if m.mode == ModeTags {
		content += HelpStyle.Render("←→:select  a:add  e:edit  d:delete  Esc:close")
	} else {
		content += HelpStyle.Render("Enter:save  Tab:complete  Esc:back")
	}
	return ModalStyle.Width(60).Render(content)
}

func (m Model) renderFilterModal() string {
	modalWidth := 55

	content := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Search") + "\n"
	content += HelpStyle.Render("Words must all match; + separates alternatives") + "\n\n"
	content += "/" + m.input.View() + "\n\n"
	content += lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", modalWidth-6)) + "\n\n"

	matches := 0
	for _, ev := range m.rows {
		if !ev.Today {
			matches++
		}
	}
	if m.query == "" {
		content += HelpStyle.Render("Type to search...") + "\n"
	} else {
		content += fmt.Sprintf("%d events shown\n", matches)
	}
	for _, s := range m.suggestions {
		content += HelpStyle.Render("  "+s) + "\n"
	}

	content += "\n" + HelpStyle.Render("Tab:complete  Enter:keep  Esc:clear")
	return ModalStyle.Width(modalWidth).Render(content)
}

func (m Model) renderConfirmModal() string {
	text := ""
	if ev, err := m.session.Get(m.editID); err == nil {
		text = truncate(ev.Text, 40)
	}
	content := lipgloss.NewStyle().Bold(true).Render("Delete event?") + "\n\n"
	content += text + "\n\n"
	content += HelpStyle.Render("y:delete  any other key:cancel")
	return ModalStyle.Render(content)
}

func (m Model) renderUpcomingModal() string {
	up := m.session.Upcoming()
	modalWidth := 64

	content := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Upcoming") + "  "
	content += HelpStyle.Render("sorted "+up.Mode.Label()) + "\n\n"

	content += SectionStyle.Render("Anniversaries") + "\n"
	if len(up.Past) == 0 {
		content += HelpStyle.Render("  none") + "\n"
	}
	for _, p := range up.Past {
		content += fmt.Sprintf("  %s  %s\n", p.Next.Format("Jan 02, 2006"), truncate(p.Event.Text, modalWidth-24))
		content += HelpStyle.Render("      "+anniversaryLabel(p)) + "\n"
	}

	content += "\n" + SectionStyle.Render("Next 30 days") + "\n"
	if len(up.Future) == 0 {
		content += HelpStyle.Render("  none") + "\n"
	}
	for _, p := range up.Future {
		content += fmt.Sprintf("  %s  %s\n", p.Next.Format("Jan 02, 2006"), truncate(p.Event.Text, modalWidth-24))
	}

	content += "\n" + HelpStyle.Render("s:toggle sort  any other key:close")
	return ModalStyle.Width(modalWidth).Render(content)
}

func (m Model) renderStatsModal() string {
	st := m.session.Stats(m.filter())

	content := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Statistics") + "\n\n"
	content += statsLine(st) + "\n"
	content += fmt.Sprintf("%d pinned\n", st.Pinned)
	content += fmt.Sprintf("%d tags, %d durations\n", len(m.session.Tags()), len(m.session.Durations()))
	content += "\n" + HelpStyle.Render("Press any key to close")
	return ModalStyle.Render(content)
}

func (m Model) renderHelp() string {
	help := `
╭─── Keyboard Shortcuts ─────╮
│                            │
│  Navigation                │
│  ──────────                │
│  j/↓  k/↑  Move            │
│  g    G    Oldest/newest   │
│  .         Jump to today   │
│  Tab       Switch pane     │
│                            │
│  Events                    │
│  ──────                    │
│  a         Add event       │
│  e/Enter   Edit event      │
│  t         Edit tags       │
│  p         Pin/unpin       │
│  P         Pins only       │
│  C         Clear pins      │
│  d         Delete          │
│                            │
│  Views                     │
│  ─────                     │
│  /         Search          │
│  u         Upcoming        │
│  s         Sort upcoming   │
│  i         Statistics      │
│  q         Quit            │
│                            │
╰────────────────────────────╯

     Press any key to close
`
	return help
}
