package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	toggle     key.Binding
	enableAll  key.Binding
	disableAll key.Binding
	raise      key.Binding
	lower      key.Binding
	remove     key.Binding
	sync       key.Binding
	syncAll    key.Binding
	cancel     key.Binding
	restart    key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		toggle:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "toggle")),
		enableAll:  key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "enable all")),
		disableAll: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "disable all")),
		raise:      key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "raise priority")),
		lower:      key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "lower priority")),
		remove:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		sync:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sync")),
		syncAll:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "sync all")),
		cancel:     key.NewBinding(key.WithKeys("esc", "c"), key.WithHelp("esc", "cancel")),
		restart:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "back")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.toggle},
		{k.enableAll, k.disableAll},
		{k.raise, k.lower, k.remove},
		{k.sync, k.syncAll, k.cancel},
		{k.restart, k.quit},
	}
}
