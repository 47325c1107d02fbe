package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/views/ask"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/views/upload"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// redrawInterval is how often placeholders are redrawn during an upload.
const redrawInterval = 150 * time.Millisecond

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	documentsView *documents.View
	askView       *ask.View
	uploadView    *upload.View

	// settingsView is nil when no settings service was provided.
	settingsView *settings.View

	currentView messages.ViewType

	// polling is true while a poll tick is scheduled.
	polling bool

	// uploads counts upload calls in flight.
	uploads int

	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	app := &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		documentsView: documents.NewView(s, km, ports.Dashboard),
		askView:       ask.NewView(s, km, ports.Dashboard),
		uploadView:    upload.NewView(s, km, ports.Dashboard),
		currentView:   messages.ViewDocuments,
	}
	if ports.Settings != nil {
		app.settingsView = settings.NewView(s, km, ports.Settings)
	}
	return app, nil
}

// WithContext sets the context for dashboard calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.documentsView.WithContext(ctx)
	a.askView.WithContext(ctx)
	a.uploadView.WithContext(ctx)
	return a
}

// Init implements tea.Model. It mounts the dashboard.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("docqa"),
		a.mount(),
	)
}

func (a *App) mount() tea.Cmd {
	return func() tea.Msg {
		a.ports.Dashboard.Mount(a.ctx)
		return messages.Mounted{}
	}
}

func (a *App) refresh(reason driving.RefreshReason) tea.Cmd {
	return func() tea.Msg {
		err := a.ports.Dashboard.Refresh(a.ctx, driving.RefreshRequest{Reason: reason})
		return messages.DocumentsRefreshed{Reason: reason, Err: err}
	}
}

// sync pushes the dashboard state into every view and schedules a
// poll while any document is still indexing.
func (a *App) sync() tea.Cmd {
	state := a.ports.Dashboard.View()
	a.documentsView.Sync(state)
	a.askView.Sync(state)
	a.uploadView.Sync(state)

	if a.polling || !state.Unsettled() {
		return nil
	}
	a.polling = true
	return tea.Tick(a.ports.pollInterval(), func(time.Time) tea.Msg {
		return messages.PollTick{}
	})
}

func redraw() tea.Cmd {
	return tea.Tick(redrawInterval, func(time.Time) tea.Msg {
		return messages.Redraw{}
	})
}

// Update implements tea.Model.
//
//nolint:gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.updateCurrent(msg)

	case messages.Mounted:
		return a, a.sync()

	case messages.RefreshRequested:
		return a, a.refresh(msg.Reason)

	case messages.DocumentsRefreshed:
		if msg.Err != nil {
			a.err = msg.Err
		}
		return a, a.sync()

	case messages.PollTick:
		a.polling = false
		return a, a.refresh(driving.RefreshPoll)

	case messages.UploadStarted:
		a.uploads++
		return a, redraw()

	case messages.Redraw:
		cmd = a.sync()
		if a.uploads > 0 {
			cmd = tea.Batch(cmd, redraw())
		}
		return a, cmd

	case messages.UploadCompleted:
		if a.uploads > 0 {
			a.uploads--
		}
		if msg.Err != nil {
			a.err = msg.Err
		}
		cmd = a.sync()
		a.documentsView, _ = a.documentsView.Update(msg)
		a.uploadView, _ = a.uploadView.Update(msg)
		return a, cmd

	case messages.DeleteCompleted:
		if msg.Err != nil {
			a.err = msg.Err
		}
		cmd = a.sync()
		a.documentsView, _ = a.documentsView.Update(msg)
		return a, cmd

	case messages.QuestionAnswered:
		if msg.Err != nil {
			a.err = msg.Err
		}
		cmd = a.sync()
		a.askView, _ = a.askView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		return a, a.changeView(msg.View)

	case messages.SettingsLoaded, messages.SettingSaved:
		if a.settingsView != nil {
			a.settingsView, cmd = a.settingsView.Update(msg)
		}
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.updateCurrent(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.updateCurrent(msg)
}

// updateCurrent forwards a message to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)
	case messages.ViewUpload:
		a.uploadView, cmd = a.uploadView.Update(msg)
	case messages.ViewSettings:
		if a.settingsView != nil {
			a.settingsView, cmd = a.settingsView.Update(msg)
		}
	case messages.ViewHelp:
		if key, ok := msg.(tea.KeyMsg); ok {
			if keymap.Matches(key.String(), a.keymap.Quit) {
				return tea.Quit
			}
			a.currentView = messages.ViewDocuments
		}
	}
	return cmd
}

func (a *App) changeView(view messages.ViewType) tea.Cmd {
	if view == messages.ViewSettings && a.settingsView == nil {
		return nil
	}
	a.currentView = view
	syncCmd := a.sync()

	switch view {
	case messages.ViewAsk:
		a.askView.Reset()
		return tea.Batch(syncCmd, a.askView.Init())
	case messages.ViewUpload:
		a.uploadView.Reset()
		return tea.Batch(syncCmd, a.uploadView.Init())
	case messages.ViewSettings:
		a.settingsView.Reset()
		return tea.Batch(syncCmd, a.settingsView.Init())
	case messages.ViewDocuments, messages.ViewHelp:
	}
	return syncCmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewAsk:
		return a.askView.View()
	case messages.ViewUpload:
		return a.uploadView.View()
	case messages.ViewSettings:
		if a.settingsView != nil {
			return a.settingsView.View()
		}
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewDocuments:
	}
	return a.documentsView.View()
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Documents:
  j/k, ↑/↓    Navigate documents
  a           Ask a question
  u           Upload files
  d           Delete the selected document (asks first)
  r           Refresh the list
  s           Settings
  q           Quit

Ask:
  enter       Submit the question
  tab         Next retrieval strategy
  ctrl+e      Toggle evaluation metrics
  n           New question (after an answer)
  s           Show or hide sources (after an answer)

Upload:
  space       Select a file
  tab         Next indexing strategy
  enter       Upload the selected files
  /           Change folder

The list refreshes on its own while documents are indexing.

` + a.styles.Help.Render("[any key] back")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// Polling returns whether an indexing poll is scheduled.
func (a *App) Polling() bool {
	return a.polling
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.documentsView.SetDimensions(width, height)
	a.askView.SetDimensions(width, height)
	a.uploadView.SetDimensions(width, height)
	if a.settingsView != nil {
		a.settingsView.SetDimensions(width, height)
	}
}
