package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the widget's bindings. Bindings that do not apply to the
// current focus are disabled so they neither match nor show up in help.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Choose    key.Binding
	Blur      key.Binding
	Focus     key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the stock bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑/ctrl+p", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓/ctrl+n", "next"),
		),
		Choose: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "choose"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc", "tab"),
			key.WithHelp("esc/tab", "leave input"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab", "/", "i"),
			key.WithHelp("tab", "edit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// SetFocused enables the bindings that apply while the input has focus
func (k *KeyMap) SetFocused(focused bool) {
	k.Blur.SetEnabled(focused)
	k.Focus.SetEnabled(!focused)
	k.Help.SetEnabled(!focused)
	k.Quit.SetEnabled(!focused)
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Choose, k.Blur, k.Focus, k.Help, k.Quit, k.ForceQuit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Choose},
		{k.Blur, k.Focus},
		{k.Help, k.Quit, k.ForceQuit},
	}
}
