package main

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the application shortcuts. Keys not bound here fall through
// to the interaction machine (tools, zoom, escape, delete).
type keyMap struct {
	Quit         key.Binding
	Help         key.Binding
	Space        key.Binding
	Kinds        key.Binding
	Section      key.Binding
	PlaceSection key.Binding
	Fit          key.Binding
	Goto         key.Binding
	Rename       key.Binding
	Theme        key.Binding
	DropSection  key.Binding
	Delete       key.Binding
	Confirm      key.Binding
	Mention      key.Binding
	Narrower     key.Binding
	Wider        key.Binding
	Chat         key.Binding
	ExportPNG    key.Binding
	ExportTXT    key.Binding
	Paste        key.Binding
	Copy         key.Binding
	Pan          key.Binding
	Enter        key.Binding
	Back         key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Space: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle hand overlay"),
	),
	Kinds: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7"),
		key.WithHelp("1-7", "draw a new node"),
	),
	Section: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "draw a section"),
	),
	PlaceSection: key.NewBinding(
		key.WithKeys("S"),
		key.WithHelp("S", "add a section in view"),
	),
	Fit: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "fit everything"),
	),
	Goto: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "pan to selection"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename active section"),
	),
	Theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "cycle section theme"),
	),
	DropSection: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "delete active section"),
	),
	Delete: key.NewBinding(
		key.WithKeys("delete", "backspace"),
		key.WithHelp("del", "delete selection"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm checkpoint"),
	),
	Mention: key.NewBinding(
		key.WithKeys("@"),
		key.WithHelp("@", "mention a node"),
	),
	Narrower: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "narrow sidebar"),
	),
	Wider: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "widen sidebar"),
	),
	Chat: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "focus chat"),
	),
	ExportPNG: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "export png"),
	),
	ExportTXT: key.NewBinding(
		key.WithKeys("X"),
		key.WithHelp("X", "export text"),
	),
	Paste: key.NewBinding(
		key.WithKeys("ctrl+v"),
		key.WithHelp("ctrl+v", "paste as document"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy mentions"),
	),
	Pan: key.NewBinding(
		key.WithKeys("left", "right", "up", "down", "shift+left", "shift+right", "shift+up", "shift+down"),
		key.WithHelp("←↓↑→", "pan"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// helpBindings is the order bindings appear in the help screen.
func (k keyMap) helpBindings() []key.Binding {
	return []key.Binding{
		k.Space, k.Kinds, k.Section, k.PlaceSection, k.Fit, k.Goto,
		k.Rename, k.Theme, k.DropSection, k.Delete, k.Confirm, k.Mention, k.Chat, k.Copy, k.Paste,
		k.Narrower, k.Wider, k.ExportPNG, k.ExportTXT, k.Pan, k.Help, k.Quit,
	}
}
