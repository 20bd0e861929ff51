package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Shuffle  key.Binding
	Themes   key.Binding
	AllTheme key.Binding
	Reset    key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
	Debug    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Next: key.NewBinding(
		key.WithKeys("right", "l", " ", "enter"),
		key.WithHelp("→/space", "next"),
	),
	Prev: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "previous"),
	),
	Shuffle: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "shuffle"),
	),
	Themes: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5"),
		key.WithHelp("1-5", "toggle theme"),
	),
	AllTheme: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "all themes"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "new game"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y", "enter"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n", "cancel"),
	),
	Debug: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "debug"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Shuffle, k.Themes, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Shuffle},
		{k.Themes, k.AllTheme, k.Reset},
		{k.Debug, k.Help, k.Quit},
	}
}

// endKeys is the reduced map shown at the end of the deck.
type endKeys struct{ keyMap }

func (k endKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Reset, k.Quit}
}

func (k endKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
