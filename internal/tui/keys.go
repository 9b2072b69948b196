package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Hit      key.Binding
	Stand    key.Binding
	NewRound key.Binding
	Rules    key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Hit: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hit"),
		),
		Stand: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stand"),
		),
		NewRound: key.NewBinding(
			key.WithKeys("n", "enter"),
			key.WithHelp("n", "new round"),
		),
		Rules: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "rules"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Hit, k.Stand, k.NewRound, k.Rules, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
