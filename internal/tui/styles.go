package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/timeline/internal/model"
)

// Color palette
var (
	// Tag colors
	TagPerson   = lipgloss.Color("#FFB347") // Orange
	TagDuration = lipgloss.Color("#C792EA") // Purple
	TagGeneric  = lipgloss.Color("#4ECDC4") // Teal

	// Event colors
	Pinned = lipgloss.Color("#FFE66D") // Yellow
	Today  = lipgloss.Color("#FF6B6B") // Red
	Future = lipgloss.Color("#95E1A3") // Green

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Secondary = lipgloss.Color("#6C757D")
	Surface   = lipgloss.Color("#16213e")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	Highlight = lipgloss.Color("#4ECDC4")
)

// Styles
var (
	// Timeline pane
	TimelineStyle = lipgloss.NewStyle().
			Padding(1, 2)

	// Sidebar
	SidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(Border).
			Padding(1, 1)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	// Event rows
	EventItemStyle = lipgloss.NewStyle()

	EventItemSelectedStyle = lipgloss.NewStyle().
				Background(Surface).
				Bold(true)

	DateStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	FutureStyle = lipgloss.NewStyle().
			Foreground(Future)

	DraftStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Italic(true)

	TodayStyle = lipgloss.NewStyle().
			Foreground(Today).
			Bold(true)

	PinStyle = lipgloss.NewStyle().Foreground(Pinned).Bold(true)

	// Tags
	TagPersonStyle   = lipgloss.NewStyle().Foreground(TagPerson)
	TagDurationStyle = lipgloss.NewStyle().Foreground(TagDuration).Italic(true)
	TagGenericStyle  = lipgloss.NewStyle().Foreground(TagGeneric)

	TagSelectedStyle = lipgloss.NewStyle().
				Reverse(true).
				Bold(true)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	// Input modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Today)
)

// GetTagStyle returns the style for a tag's grammar class
func GetTagStyle(raw string) lipgloss.Style {
	tag, err := model.ParseTag(raw)
	if err != nil {
		return ErrorStyle
	}
	switch tag.Kind {
	case model.KindPerson:
		return TagPersonStyle
	case model.KindDuration:
		return TagDurationStyle
	default:
		return TagGenericStyle
	}
}

// FormatTag returns a tag rendered in its class color
func FormatTag(raw string) string {
	return GetTagStyle(raw).Render("[" + raw + "]")
}
