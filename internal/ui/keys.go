package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit     key.Binding
	Back     key.Binding
	Help     key.Binding
	Enter    key.Binding
	Refresh  key.Binding
	Login    key.Binding
	Register key.Binding
	Profile  key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Tab1     key.Binding
	Tab2     key.Binding
	Tab3     key.Binding
	Filter   key.Binding
}

var Keys = KeyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Login:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "login/logout")),
	Register: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "register")),
	Profile:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
	NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next board")),
	PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev board")),
	Tab1:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "tech")),
	Tab2:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "free")),
	Tab3:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "guestbook")),
	Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Login, k.Profile, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Enter, k.Back, k.Refresh, k.Filter},
		{k.Tab1, k.Tab2, k.Tab3, k.NextTab, k.PrevTab},
		{k.Login, k.Register, k.Profile},
		{k.Help, k.Quit},
	}
}
