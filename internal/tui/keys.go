package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the progress view.
type KeyMap struct {
	Cancel key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Cancel: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "cancel"),
		),
	}
}

// HelpText returns a formatted help string.
func (k KeyMap) HelpText() string {
	return k.Cancel.Help().Key + " " + k.Cancel.Help().Desc
}
