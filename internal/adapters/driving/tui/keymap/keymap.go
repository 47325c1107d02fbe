// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding

	// Back returns to the document list.
	Back key.Binding

	Up     key.Binding
	Down   key.Binding
	Select key.Binding

	// Document list actions.
	Ask      key.Binding
	Upload   key.Binding
	Delete   key.Binding
	Refresh  key.Binding
	Settings key.Binding

	// Confirm and Deny answer the delete prompt.
	Confirm key.Binding
	Deny    key.Binding

	// Form controls.
	Submit       key.Binding
	NextStrategy key.Binding
	ToggleEval   key.Binding
	ToggleFile   key.Binding

	// Answer controls.
	ToggleSources key.Binding
	NewQuestion   key.Binding

	// Unset restores a setting to its default.
	Unset key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Ask: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "ask"),
		),
		Upload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "upload"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "settings"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "no"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		NextStrategy: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "strategy"),
		),
		ToggleEval: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "evaluation"),
		),
		ToggleFile: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select file"),
		),
		ToggleSources: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sources"),
		),
		NewQuestion: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new question"),
		),
		Unset: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "reset"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// DocumentsHelp returns keybindings for the document list.
func (k *KeyMap) DocumentsHelp() []key.Binding {
	return []key.Binding{k.Ask, k.Upload, k.Delete, k.Refresh, k.Help, k.Quit}
}

// ConfirmHelp returns keybindings for the delete prompt.
func (k *KeyMap) ConfirmHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Deny}
}

// AskHelp returns keybindings for the question form.
func (k *KeyMap) AskHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NextStrategy, k.ToggleEval, k.Back}
}

// AnswerHelp returns keybindings shown under an answer.
func (k *KeyMap) AnswerHelp() []key.Binding {
	return []key.Binding{k.NewQuestion, k.ToggleSources, k.Back}
}

// UploadHelp returns keybindings for the upload form.
func (k *KeyMap) UploadHelp() []key.Binding {
	return []key.Binding{k.ToggleFile, k.NextStrategy, k.Submit, k.Back}
}

// SettingsHelp returns keybindings for the settings editor.
func (k *KeyMap) SettingsHelp() []key.Binding {
	return []key.Binding{k.Select, k.Unset, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Ask, k.Upload, k.Delete, k.Refresh, k.Settings},
		{k.Submit, k.NextStrategy, k.ToggleEval, k.ToggleFile},
		{k.NewQuestion, k.ToggleSources, k.Unset},
		{k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
