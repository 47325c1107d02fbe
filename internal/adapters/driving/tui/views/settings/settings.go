// Package settings provides the settings editor view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// errUnavailable is shown when no settings service was wired.
var errUnavailable = errors.New("settings are not available")

// View lists persisted settings and edits one at a time.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	settingsService driving.SettingsService

	settings []driving.Setting
	selected int
	err      error
	saved    string

	// editor is non-nil while a value is being edited.
	editor *input.TextInput

	width  int
	height int
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, km *keymap.KeyMap, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:          s,
		keymap:          km,
		settingsService: settingsService,
		width:           80,
		height:          24,
	}
}

// Init loads the settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.ErrorOccurred{Err: errUnavailable}
		}
		return messages.SettingsLoaded{Settings: v.settingsService.List()}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		v.settings = msg.Settings
		if v.selected >= len(v.settings) {
			v.selected = 0
		}
		return v, nil

	case messages.SettingSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.saved = msg.Key
		return v, v.loadSettings()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		if v.editor != nil {
			return v.handleEditKey(msg)
		}
		return v.handleListKey(msg)
	}

	if v.editor != nil {
		var cmd tea.Cmd
		v.editor, cmd = v.editor.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleListKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewDocuments} }

	case keymap.Matches(key, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(key, v.keymap.Down):
		if v.selected < len(v.settings)-1 {
			v.selected++
		}

	case keymap.Matches(key, v.keymap.Select):
		if s := v.current(); s != nil {
			v.editor = input.NewTextInput(v.styles, s.Key, s.Description)
			v.editor.SetValue(s.Value)
			v.editor.SetWidth(v.width)
			return v, v.editor.Init()
		}

	case keymap.Matches(key, v.keymap.Unset):
		if s := v.current(); s != nil && s.Stored {
			return v, v.unset(s.Key)
		}
	}
	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.editor = nil
		return v, nil
	case tea.KeyEnter:
		s := v.current()
		value := strings.TrimSpace(v.editor.Value())
		v.editor = nil
		if s == nil {
			return v, nil
		}
		return v, v.set(s.Key, value)
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

func (v *View) set(key, value string) tea.Cmd {
	return func() tea.Msg {
		return messages.SettingSaved{Key: key, Err: v.settingsService.Set(key, value)}
	}
}

func (v *View) unset(key string) tea.Cmd {
	return func() tea.Msg {
		return messages.SettingSaved{Key: key, Err: v.settingsService.Unset(key)}
	}
}

func (v *View) current() *driving.Setting {
	if v.selected < 0 || v.selected >= len(v.settings) {
		return nil
	}
	return &v.settings[v.selected]
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	if v.settingsService != nil {
		b.WriteString(v.styles.Muted.Render("  " + v.settingsService.Path()))
	}
	b.WriteString("\n\n")

	for i, s := range v.settings {
		value := s.Value
		if value == "" {
			value = "(not set)"
		}
		source := "default"
		if s.Stored {
			source = "stored"
		}
		line := fmt.Sprintf("%-28s %-32s [%s]", s.Key, value, source)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if s := v.current(); s != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(s.Description))
		b.WriteString("\n")
	}

	if v.editor != nil {
		b.WriteString("\n")
		b.WriteString(v.editor.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(v.err.Error()))
	case v.saved != "":
		b.WriteString(v.styles.Success.Render(fmt.Sprintf("Saved %s. Changes apply the next time docqa starts.", v.saved)))
	}
	b.WriteString("\n\n")

	if v.editor != nil {
		b.WriteString(v.styles.Help.Render("[enter] save  [esc] cancel"))
	} else {
		b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] edit  [x] reset  [esc] back"))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Reset clears messages and any open editor.
func (v *View) Reset() {
	v.err = nil
	v.saved = ""
	v.editor = nil
}

// Settings returns the loaded settings.
func (v *View) Settings() []driving.Setting {
	return v.settings
}

// Editing returns true while a value is being edited.
func (v *View) Editing() bool {
	return v.editor != nil
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
