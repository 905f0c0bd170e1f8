package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	save    key.Binding
	like    key.Binding
	dismiss key.Binding
	saved   key.Binding
	feed    key.Binding
	profile key.Binding
	refresh key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		save:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		like:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
		dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
		saved:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "saved")),
		feed:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "feed")),
		profile: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "profile")),
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.save, k.like, k.dismiss},
		{k.feed, k.saved, k.profile},
		{k.refresh, k.quit},
	}
}
