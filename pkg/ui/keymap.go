package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	NextPersona  key.Binding
	PrevPersona  key.Binding
	Submit       key.Binding
	ScrollUp     key.Binding
	ScrollDown   key.Binding
	ClearHistory key.Binding
	Quit         key.Binding
}

var DefaultKeyMap = KeyMap{
	NextPersona:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next persona")),
	PrevPersona:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous persona")),
	Submit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
	ScrollUp:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
	ScrollDown:   key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "scroll down")),
	ClearHistory: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear chat")),
	Quit:         key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

func (k KeyMap) helpBindings() []key.Binding {
	return []key.Binding{k.Submit, k.NextPersona, k.PrevPersona, k.ScrollUp, k.ScrollDown, k.ClearHistory, k.Quit}
}
