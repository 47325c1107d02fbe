package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_QuitBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Quit.Keys()
	assert.Contains(t, keys, "q")
	assert.Contains(t, keys, "ctrl+c")
}

func TestDefaultKeyMap_ConfirmAndDeny(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.Confirm.Keys(), "y")
	assert.Contains(t, km.Deny.Keys(), "n")
	assert.Contains(t, km.Deny.Keys(), "esc")
}

func TestDefaultKeyMap_ToggleFileIsSpace(t *testing.T) {
	km := DefaultKeyMap()

	assert.Equal(t, []string{" "}, km.ToggleFile.Keys())
}

func TestShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.ShortHelp()

	assert.Len(t, bindings, 2)
	assert.Equal(t, km.Quit, bindings[0])
	assert.Equal(t, km.Help, bindings[1])
}

func TestDocumentsHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.DocumentsHelp()

	require.Len(t, bindings, 6)
	assert.Equal(t, km.Ask, bindings[0])
	assert.Equal(t, km.Quit, bindings[5])
}

func TestFullHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.FullHelp()

	assert.Len(t, bindings, 4)
	assert.Len(t, bindings[3], 3) // Back, Help, Quit
}

func TestMatches_True(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("q", km.Quit))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("?", km.Help))
	assert.True(t, Matches("k", km.Up))
	assert.True(t, Matches("delete", km.Delete))
	assert.True(t, Matches("tab", km.NextStrategy))
}

func TestMatches_False(t *testing.T) {
	km := DefaultKeyMap()

	assert.False(t, Matches("x", km.Quit))
	assert.False(t, Matches("a", km.Help))
	assert.False(t, Matches("down", km.Up))
}

func TestBindings_HaveHelp(t *testing.T) {
	km := DefaultKeyMap()

	testCases := []struct {
		name    string
		binding key.Binding
	}{
		{"Quit", km.Quit},
		{"Help", km.Help},
		{"Back", km.Back},
		{"Ask", km.Ask},
		{"Upload", km.Upload},
		{"Delete", km.Delete},
		{"Refresh", km.Refresh},
		{"Confirm", km.Confirm},
		{"Submit", km.Submit},
		{"NextStrategy", km.NextStrategy},
		{"ToggleEval", km.ToggleEval},
		{"ToggleFile", km.ToggleFile},
		{"ToggleSources", km.ToggleSources},
		{"Unset", km.Unset},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			help := tc.binding.Help()
			assert.NotEmpty(t, help.Key, "binding should have help key")
		})
	}
}
