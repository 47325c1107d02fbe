// Package documents provides the document list view, the dashboard's home screen.
package documents

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// View lists uploaded documents and handles delete confirmation.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	list      *list.DocumentList
	statusbar *status.Bar

	dashboard driving.Dashboard
	ctx       context.Context

	// confirming holds the document awaiting a delete answer.
	confirming *domain.Document

	width  int
	height int
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, km *keymap.KeyMap, dashboard driving.Dashboard) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		list:      list.NewDocumentList(s),
		statusbar: status.NewBar(s, km),
		dashboard: dashboard,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
	v.statusbar.SetHints(km.DocumentsHelp())
	return v
}

// WithContext sets the context used for dashboard calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Sync copies the dashboard state into the view.
func (v *View) Sync(state driving.DashboardView) {
	v.list.SetDocuments(state.Documents, state.Pending)

	switch state.LoadState {
	case driving.LoadLoading:
		v.statusbar.SetState(status.StateLoading)
	case driving.LoadError:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(state.DocumentState.ErrorMessage)
	case driving.LoadIdle, driving.LoadLoaded:
		if state.DocumentState.ErrorMessage != "" {
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(state.DocumentState.ErrorMessage)
			return
		}
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage(summary(state))
	}
}

func summary(state driving.DashboardView) string {
	msg := fmt.Sprintf("%d documents", len(state.Documents))
	indexing := 0
	for _, d := range state.Documents {
		if !d.Status.Settled() {
			indexing++
		}
	}
	if indexing > 0 {
		msg += fmt.Sprintf(", %d indexing", indexing)
	}
	if len(state.Pending) > 0 {
		msg += fmt.Sprintf(", %d uploading", len(state.Pending))
	}
	return msg
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.confirming != nil {
			return v.handleConfirmKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.UploadCompleted:
		if msg.Err != nil {
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(domain.UserMessage(msg.Err, domain.MsgUploadFailed))
			return v, nil
		}
		v.statusbar.SetState(status.StateInfo)
		v.statusbar.SetMessage(uploadSummary(msg))
		return v, nil

	case messages.DeleteCompleted:
		switch {
		case msg.Err != nil:
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(domain.UserMessage(msg.Err, domain.MsgDeleteFailed))
		case !msg.Attempted:
			v.statusbar.SetState(status.StateInfo)
			v.statusbar.SetMessage("Delete cancelled")
		default:
			v.statusbar.SetState(status.StateInfo)
			v.statusbar.SetMessage("Deleted " + msg.DocumentID)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	return v, nil
}

func uploadSummary(msg messages.UploadCompleted) string {
	n := 0
	if msg.Result != nil {
		n = len(msg.Result.Documents)
	}
	text := fmt.Sprintf("Uploaded %d files", n)
	if msg.Result != nil && msg.Result.Message != "" {
		text = msg.Result.Message
	}
	if len(msg.Skipped) > 0 {
		text += fmt.Sprintf(" (%d skipped)", len(msg.Skipped))
	}
	return text
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Up), keymap.Matches(key, v.keymap.Down):
		v.list, _ = v.list.Update(msg)
		return v, nil

	case keymap.Matches(key, v.keymap.Delete):
		doc := v.list.SelectedDocument()
		if doc == nil || doc.Placeholder {
			return v, nil
		}
		selected := *doc
		v.confirming = &selected
		v.statusbar.SetHints(v.keymap.ConfirmHelp())
		return v, nil

	case keymap.Matches(key, v.keymap.Refresh):
		return v, func() tea.Msg {
			return messages.RefreshRequested{Reason: driving.RefreshManual}
		}

	case keymap.Matches(key, v.keymap.Ask):
		return v, changeView(messages.ViewAsk)

	case keymap.Matches(key, v.keymap.Upload):
		return v, changeView(messages.ViewUpload)

	case keymap.Matches(key, v.keymap.Settings):
		return v, changeView(messages.ViewSettings)

	case keymap.Matches(key, v.keymap.Help):
		return v, changeView(messages.ViewHelp)

	case keymap.Matches(key, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	}
	return v, nil
}

func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	var accepted bool
	switch {
	case keymap.Matches(key, v.keymap.Confirm):
		accepted = true
	case keymap.Matches(key, v.keymap.Deny):
		accepted = false
	default:
		return v, nil
	}

	id := v.confirming.ID
	v.confirming = nil
	v.statusbar.SetHints(v.keymap.DocumentsHelp())
	return v, v.deleteDocument(id, accepted)
}

// deleteDocument hands the prompt answer to the dashboard, which makes
// no call when it was declined.
func (v *View) deleteDocument(id string, accepted bool) tea.Cmd {
	if accepted {
		v.statusbar.SetState(status.StateLoading)
	}
	return func() tea.Msg {
		attempted, err := v.dashboard.Delete(v.ctx, id, func(string) bool { return accepted })
		return messages.DeleteCompleted{DocumentID: id, Attempted: attempted, Err: err}
	}
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", v.list.Count())))
	b.WriteString("\n\n")
	b.WriteString(v.list.View())
	b.WriteString("\n\n")

	if v.confirming != nil {
		b.WriteString(v.renderConfirm())
		b.WriteString("\n\n")
	}

	b.WriteString(v.statusbar.View())
	return b.String()
}

func (v *View) renderConfirm() string {
	body := v.styles.Warning.Render(driving.DeleteConfirmPrompt) + "\n" +
		v.styles.Normal.Render(v.confirming.Filename) + "\n\n" +
		v.styles.Help.Render("[y] delete  [n] cancel")
	return v.styles.Panel.Render(body)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height-8)
	v.statusbar.SetWidth(width)
}

// Documents returns the displayed rows.
func (v *View) Documents() []domain.Document {
	return v.list.Documents()
}

// SelectedDocument returns the selected row.
func (v *View) SelectedDocument() *domain.Document {
	return v.list.SelectedDocument()
}

// Confirming returns true while the delete prompt is shown.
func (v *View) Confirming() bool {
	return v.confirming != nil
}

// Status returns the status bar state and message.
func (v *View) Status() (status.State, string) {
	return v.statusbar.State(), v.statusbar.Message()
}
