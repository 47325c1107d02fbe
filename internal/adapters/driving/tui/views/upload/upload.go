// Package upload provides the upload form for the TUI.
package upload

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/connectors/filesystem"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// SourceFactory opens a local folder for listing and reading.
type SourceFactory func(dir string) driven.FolderWatcher

// folderScanned carries the uploadable files found in a folder.
type folderScanned struct {
	dir   string
	paths []string
	err   error
}

// View lets the user pick files from a folder and an indexing strategy.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	dir    *input.TextInput

	dashboard driving.Dashboard
	openDir   SourceFactory
	ctx       context.Context

	paths    []string
	chosen   map[string]bool
	selected int

	strategies domain.StrategySet
	strategy   domain.Strategy

	// focusDir is true while typing the folder path.
	focusDir bool
	err      error

	width  int
	height int
}

// NewView creates a new upload view reading from the local filesystem.
func NewView(s *styles.Styles, km *keymap.KeyMap, dashboard driving.Dashboard) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	dir := input.NewTextInput(s, "Folder", "path to a folder with PDF or text files")
	dir.SetValue(".")

	return &View{
		styles:     s,
		keymap:     km,
		dir:        dir,
		dashboard:  dashboard,
		openDir:    func(d string) driven.FolderWatcher { return filesystem.New(d) },
		ctx:        context.Background(),
		chosen:     make(map[string]bool),
		strategies: domain.FallbackStrategies.Clone(),
		strategy:   domain.FallbackStrategies.Default(),
		focusDir:   true,
		width:      80,
		height:     24,
	}
}

// WithContext sets the context used for dashboard calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithSource replaces how folders are opened.
func (v *View) WithSource(f SourceFactory) *View {
	v.openDir = f
	return v
}

// Init scans the folder currently in the path input.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.dir.Focus(), v.scan())
}

// Sync copies the indexing strategies from the dashboard.
func (v *View) Sync(state driving.DashboardView) {
	if len(state.UploadStrategies) > 0 {
		v.strategies = state.UploadStrategies.Clone()
	}
	if !v.strategies.Contains(v.strategy) {
		v.strategy = state.DefaultUploadStrategy
		if !v.strategies.Contains(v.strategy) {
			v.strategy = v.strategies.Default()
		}
	}
}

func (v *View) scan() tea.Cmd {
	dir := strings.TrimSpace(v.dir.Value())
	if dir == "" {
		dir = "."
	}
	return func() tea.Msg {
		src := v.openDir(dir)
		defer src.Close()
		paths, err := src.Scan()
		return folderScanned{dir: dir, paths: paths, err: err}
	}
}

// Update handles messages for the upload view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.focusDir {
			return v.handleDirKey(msg)
		}
		return v.handleFilesKey(msg)

	case folderScanned:
		v.err = msg.err
		v.paths = msg.paths
		v.chosen = make(map[string]bool)
		v.selected = 0
		return v, nil

	case messages.UploadCompleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.chosen = make(map[string]bool)
		return v, nil
	}

	var cmd tea.Cmd
	v.dir, cmd = v.dir.Update(msg)
	return v, cmd
}

func (v *View) handleDirKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return v, backToDocuments
	case tea.KeyEnter, tea.KeyTab:
		v.focusDir = false
		v.dir.Blur()
		return v, v.scan()
	}

	var cmd tea.Cmd
	v.dir, cmd = v.dir.Update(msg)
	return v, cmd
}

func (v *View) handleFilesKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case msg.Type == tea.KeyEsc:
		return v, backToDocuments

	case keymap.Matches(key, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(key, v.keymap.Down):
		if v.selected < len(v.paths)-1 {
			v.selected++
		}

	case keymap.Matches(key, v.keymap.ToggleFile):
		if v.selected < len(v.paths) {
			p := v.paths[v.selected]
			v.chosen[p] = !v.chosen[p]
		}

	case keymap.Matches(key, v.keymap.NextStrategy):
		v.nextStrategy()

	case key == "/":
		v.focusDir = true
		return v, v.dir.Focus()

	case msg.Type == tea.KeyEnter:
		return v, v.upload()
	}
	return v, nil
}

func (v *View) nextStrategy() {
	if len(v.strategies) == 0 {
		return
	}
	for i, s := range v.strategies {
		if s == v.strategy {
			v.strategy = v.strategies[(i+1)%len(v.strategies)]
			return
		}
	}
	v.strategy = v.strategies[0]
}

// Chosen returns the selected paths in listing order.
func (v *View) Chosen() []string {
	var out []string
	for _, p := range v.paths {
		if v.chosen[p] {
			out = append(out, p)
		}
	}
	return out
}

// upload reads the chosen files and hands them to the dashboard, then
// returns to the document list where the placeholders show.
func (v *View) upload() tea.Cmd {
	paths := v.Chosen()
	if len(paths) == 0 {
		v.err = domain.NewValidationError("files", "Please select at least one file.")
		return nil
	}
	v.err = nil

	started := func() tea.Msg { return messages.UploadStarted{Files: len(paths)} }
	return tea.Sequence(started, tea.Batch(v.send(paths, v.strategy), backToDocuments))
}

func (v *View) send(paths []string, strategy domain.Strategy) tea.Cmd {
	dir := strings.TrimSpace(v.dir.Value())
	return func() tea.Msg {
		src := v.openDir(dir)
		defer src.Close()
		files, skipped, err := src.Read(paths)
		if err != nil {
			return messages.UploadCompleted{Err: err}
		}
		result, err := v.dashboard.Upload(v.ctx, files, strategy)
		return messages.UploadCompleted{Result: result, Skipped: skipped, Err: err}
	}
}

func backToDocuments() tea.Msg {
	return messages.ViewChanged{View: messages.ViewDocuments}
}

// View renders the upload form.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Upload documents"))
	b.WriteString("\n\n")
	b.WriteString(v.dir.View())
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Indexing strategy: "))
	b.WriteString(v.styles.Subtitle.Render(v.strategy.DisplayName()))
	if desc := v.strategy.Description(); desc != "" {
		b.WriteString(v.styles.Muted.Render("  " + desc))
	}
	b.WriteString("\n\n")

	b.WriteString(v.renderFiles())
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(domain.UserMessage(v.err, domain.MsgUploadFailed)))
		b.WriteString("\n\n")
	}

	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderFiles() string {
	if len(v.paths) == 0 {
		return v.styles.Muted.Render("No PDF or text files in this folder.")
	}

	lines := make([]string, 0, len(v.paths))
	for i, p := range v.paths {
		box := "[ ]"
		if v.chosen[p] {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, filepath.Base(p))
		if i == v.selected && !v.focusDir {
			lines = append(lines, v.styles.Selected.Render("> "+line))
			continue
		}
		lines = append(lines, v.styles.Normal.Render("  "+line))
	}
	lines = append(lines, "", v.styles.Muted.Render(fmt.Sprintf("%d selected", len(v.Chosen()))))
	return strings.Join(lines, "\n")
}

func (v *View) renderHelp() string {
	if v.focusDir {
		return v.styles.Help.Render("[enter] list files  [esc] back")
	}
	return v.styles.Help.Render("[↑/↓] navigate  [space] select  [tab] strategy  [enter] upload  [/] folder  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.dir.SetWidth(width)
}

// Reset clears the selection and focuses the folder input.
func (v *View) Reset() {
	v.focusDir = true
	v.err = nil
	v.chosen = make(map[string]bool)
	v.selected = 0
}

// Paths returns the files listed from the folder.
func (v *View) Paths() []string {
	return v.paths
}

// Strategy returns the selected indexing strategy.
func (v *View) Strategy() domain.Strategy {
	return v.strategy
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
