package upload

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/core/services"
)

func newTestView(t *testing.T) (*View, *services.Dashboard, *memory.DocumentAPI, string) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"a.pdf":     "%PDF-1.4",
		"b.txt":     "notes",
		"image.png": "png",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	api := memory.NewDocumentAPI()
	d := services.NewDashboard(api, memory.NewQAAPI(api), domain.DefaultClientConfig())

	v := NewView(nil, nil, d)
	v.dir.SetValue(dir)
	v.SetDimensions(100, 30)
	return v, d, api, dir
}

// scanFolder leaves the folder input and applies the scan result.
func scanFolder(t *testing.T, v *View) {
	t.Helper()
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	v.Update(cmd())
}

func space() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, nil)

	require.NotNil(t, v)
	assert.Equal(t, ".", v.dir.Value())
	assert.Equal(t, domain.StrategyVectorStore, v.Strategy())
	assert.Empty(t, v.Paths())
}

func TestView_Scan_ListsUploadableFiles(t *testing.T) {
	v, _, _, dir := newTestView(t)

	scanFolder(t, v)

	assert.Equal(t, []string{filepath.Join(dir, "a.pdf"), filepath.Join(dir, "b.txt")}, v.Paths())
	assert.NoError(t, v.Err())
	view := v.View()
	assert.Contains(t, view, "[ ] a.pdf")
	assert.NotContains(t, view, "image.png")
}

func TestView_Scan_MissingFolder(t *testing.T) {
	v, _, _, dir := newTestView(t)
	v.dir.SetValue(filepath.Join(dir, "missing"))

	scanFolder(t, v)

	assert.Error(t, v.Err())
	assert.Empty(t, v.Paths())
}

func TestView_ToggleAndNavigate(t *testing.T) {
	v, _, _, dir := newTestView(t)
	scanFolder(t, v)

	v.Update(space())
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(space())
	assert.Equal(t, []string{filepath.Join(dir, "a.pdf"), filepath.Join(dir, "b.txt")}, v.Chosen())

	v.Update(space())
	assert.Equal(t, []string{filepath.Join(dir, "a.pdf")}, v.Chosen())
	assert.Contains(t, v.View(), "1 selected")
}

func TestView_Sync_UploadStrategies(t *testing.T) {
	v := NewView(nil, nil, nil)

	v.Sync(driving.DashboardView{
		UploadStrategies:      domain.StrategySet{"sentence_window", "vector_store"},
		DefaultUploadStrategy: "sentence_window",
	})
	assert.Equal(t, domain.StrategySentenceWindow, v.Strategy())

	v.focusDir = false
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.StrategyVectorStore, v.Strategy())
}

func TestView_Upload_NothingChosen(t *testing.T) {
	v, _, api, _ := newTestView(t)
	scanFolder(t, v)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	require.Error(t, v.Err())
	assert.Contains(t, v.View(), "Please select at least one file.")
	assert.Equal(t, 0, api.Calls(memory.OpUpload))
}

func TestView_Upload_ReturnsCommand(t *testing.T) {
	v, _, _, _ := newTestView(t)
	scanFolder(t, v)
	v.Update(space())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.NotNil(t, cmd)
	assert.NoError(t, v.Err())
}

func TestView_Send_UploadsAndRefreshes(t *testing.T) {
	v, d, api, dir := newTestView(t)
	d.Mount(context.Background())
	v.Sync(d.View())

	msg := v.send([]string{filepath.Join(dir, "a.pdf"), filepath.Join(dir, "b.txt")}, domain.StrategyVectorStore)()

	done, ok := msg.(messages.UploadCompleted)
	require.True(t, ok)
	require.NoError(t, done.Err)
	assert.Equal(t, []string{"doc-1", "doc-2"}, done.Result.DocumentIDs())
	assert.Equal(t, 1, api.Calls(memory.OpUpload))
	assert.Equal(t, 2, api.Calls(memory.OpList), "mount and one refresh after upload")
	assert.Len(t, d.View().Documents, 2)
}

func TestView_Send_ReadFailure(t *testing.T) {
	v, _, api, dir := newTestView(t)

	msg := v.send([]string{filepath.Join(dir, "gone.pdf")}, domain.StrategyVectorStore)()

	done, ok := msg.(messages.UploadCompleted)
	require.True(t, ok)
	assert.Error(t, done.Err)
	assert.Equal(t, 0, api.Calls(memory.OpUpload))
}

func TestView_UploadCompleted_ClearsSelection(t *testing.T) {
	v, _, _, _ := newTestView(t)
	scanFolder(t, v)
	v.Update(space())

	v.Update(messages.UploadCompleted{Result: &domain.UploadResult{}})

	assert.Empty(t, v.Chosen())
}

func TestView_SlashFocusesFolder(t *testing.T) {
	v, _, _, _ := newTestView(t)
	scanFolder(t, v)

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})

	assert.True(t, v.focusDir)
}

func TestView_EscGoesBack(t *testing.T) {
	v := NewView(nil, nil, nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewDocuments}, cmd())
}
