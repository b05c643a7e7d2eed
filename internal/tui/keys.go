package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Today      key.Binding
	Tab        key.Binding
	Enter      key.Binding
	Add        key.Binding
	Edit       key.Binding
	Tags       key.Binding
	Pin        key.Binding
	PinsOnly   key.Binding
	ClearPins  key.Binding
	Delete     key.Binding
	Filter     key.Binding
	Sort       key.Binding
	Upcoming   key.Binding
	Stats      key.Binding
	Help       key.Binding
	Quit       key.Binding
	Escape     key.Binding
	Complete   key.Binding
	ConfirmYes key.Binding
}

var keys = keyMap{
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous")),
	Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
	Top:        key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "oldest")),
	Bottom:     key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "newest")),
	Today:      key.NewBinding(key.WithKeys("."), key.WithHelp(".", "jump to today")),
	Tab:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add event")),
	Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Tags:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tags")),
	Pin:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pin")),
	PinsOnly:   key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "pins only")),
	ClearPins:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear pins")),
	Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort mode")),
	Upcoming:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upcoming")),
	Stats:      key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "stats")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Complete:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
	ConfirmYes: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
}
