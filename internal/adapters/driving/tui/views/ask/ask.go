// Package ask provides the question form and answer view for the TUI.
package ask

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// View is the question form with the latest answer below it.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.TextInput
	statusbar *status.Bar

	dashboard driving.Dashboard
	ctx       context.Context

	strategies domain.StrategySet
	strategy   domain.Strategy
	evaluate   bool
	canSubmit  bool

	exchange    *domain.QueryExchange
	showSources bool

	// focusInput is true while typing, false while reading an answer.
	focusInput bool

	width  int
	height int
}

// NewView creates a new ask view.
func NewView(s *styles.Styles, km *keymap.KeyMap, dashboard driving.Dashboard) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:      s,
		keymap:      km,
		input:       input.NewTextInput(s, "Question", "What would you like to know?"),
		statusbar:   status.NewBar(s, km),
		dashboard:   dashboard,
		ctx:         context.Background(),
		strategies:  domain.FallbackStrategies.Clone(),
		strategy:    domain.FallbackStrategies.Default(),
		canSubmit:   true,
		showSources: true,
		focusInput:  true,
		width:       80,
		height:      24,
	}
	v.statusbar.SetHints(km.AskHelp())
	return v
}

// WithContext sets the context used for dashboard calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init focuses the question input.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Focus(), v.input.Init())
}

// Sync copies strategies, the submit gate and the latest exchange from
// the dashboard. A selected strategy that disappeared falls back to
// the default.
func (v *View) Sync(state driving.DashboardView) {
	if len(state.QAStrategies) > 0 {
		v.strategies = state.QAStrategies.Clone()
	}
	if !v.strategies.Contains(v.strategy) {
		v.strategy = state.DefaultQAStrategy
		if !v.strategies.Contains(v.strategy) {
			v.strategy = v.strategies.Default()
		}
	}
	v.canSubmit = state.CanSubmit
	if state.Exchange != nil {
		v.exchange = state.Exchange
	}
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.focusInput {
			return v.handleInputKey(msg)
		}
		return v.handleAnswerKey(msg)

	case messages.QuestionAnswered:
		v.handleAnswered(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case msg.Type == tea.KeyEsc:
		return v, backToDocuments

	case keymap.Matches(key, v.keymap.NextStrategy):
		v.nextStrategy()
		return v, nil

	case keymap.Matches(key, v.keymap.ToggleEval):
		v.evaluate = !v.evaluate
		return v, nil

	case msg.Type == tea.KeyEnter:
		return v, v.submit()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleAnswerKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case msg.Type == tea.KeyEsc:
		return v, backToDocuments

	case keymap.Matches(key, v.keymap.NewQuestion):
		v.focusInput = true
		v.input.Reset()
		v.statusbar.SetHints(v.keymap.AskHelp())
		return v, v.input.Focus()

	case keymap.Matches(key, v.keymap.ToggleSources):
		v.showSources = !v.showSources
		return v, nil

	case keymap.Matches(key, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
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

// submit asks the dashboard. While an answer is outstanding the form
// stays put and further submissions are ignored.
func (v *View) submit() tea.Cmd {
	if !v.canSubmit {
		return nil
	}
	question := v.input.Value()
	if strings.TrimSpace(question) == "" {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(domain.MsgEmptyQuestion)
		return nil
	}
	v.canSubmit = false
	v.statusbar.SetState(status.StateSubmitting)

	strategy := v.strategy
	evaluate := v.evaluate
	return func() tea.Msg {
		ex, err := v.dashboard.SubmitQuestion(v.ctx, question, strategy, evaluate)
		return messages.QuestionAnswered{Exchange: ex, Err: err}
	}
}

func (v *View) handleAnswered(msg messages.QuestionAnswered) {
	v.canSubmit = true
	if msg.Err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(domain.UserMessage(msg.Err, domain.MsgQueryFailed))
		return
	}

	v.exchange = msg.Exchange
	v.focusInput = false
	v.input.Blur()
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage(fmt.Sprintf("%d sources", len(msg.Exchange.Sources)))
	v.statusbar.SetHints(v.keymap.AnswerHelp())
}

func backToDocuments() tea.Msg {
	return messages.ViewChanged{View: messages.ViewDocuments}
}

// View renders the form, the answer and the status bar.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Ask your documents"))
	b.WriteString("\n\n")
	b.WriteString(v.input.View())
	b.WriteString("\n")
	b.WriteString(v.renderOptions())
	b.WriteString("\n\n")

	if v.exchange != nil {
		b.WriteString(v.renderAnswer())
		b.WriteString("\n\n")
	}

	b.WriteString(v.statusbar.View())
	return b.String()
}

func (v *View) renderOptions() string {
	eval := "off"
	if v.evaluate {
		eval = "on"
	}
	return v.styles.Muted.Render("Strategy: ") +
		v.styles.Subtitle.Render(v.strategy.DisplayName()) +
		v.styles.Muted.Render("   Evaluation: ") +
		v.styles.Normal.Render(eval)
}

func (v *View) renderAnswer() string {
	wrap := v.styles.Normal.Width(v.textWidth())

	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("Answer (" + v.exchange.Strategy.DisplayName() + ")"))
	b.WriteString("\n")
	for _, p := range v.exchange.Paragraphs() {
		b.WriteString(wrap.Render(p))
		b.WriteString("\n")
	}

	if v.showSources && len(v.exchange.Sources) > 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.Subtitle.Render("Sources"))
		b.WriteString("\n")
		for i, src := range v.exchange.Sources {
			b.WriteString(v.styles.Normal.Render(fmt.Sprintf("[%d] %s", i+1, src.Filename)))
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf(" (%s)", src.ScorePercent())))
			b.WriteString("\n")
			if src.Snippet != "" {
				b.WriteString(v.styles.Muted.Width(v.textWidth()).Render("    " + src.Snippet))
				b.WriteString("\n")
			}
		}
	}

	if v.exchange.ShowMetrics() {
		b.WriteString("\n")
		b.WriteString(v.styles.Subtitle.Render("Evaluation"))
		b.WriteString("\n")
		for _, m := range v.exchange.Metrics.Sorted() {
			b.WriteString(v.styles.Normal.Render(fmt.Sprintf("%s: %s", m.Name, m.Display())))
			b.WriteString("\n")
			if m.Reason != "" {
				b.WriteString(v.styles.Muted.Width(v.textWidth()).Render("    " + m.Reason))
				b.WriteString("\n")
			}
		}
	}

	return v.styles.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

func (v *View) textWidth() int {
	w := v.width - 6
	if w < 20 {
		w = 20
	}
	return w
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Reset returns to the question form, keeping the last answer visible.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Reset()
	v.statusbar.Clear()
	v.statusbar.SetHints(v.keymap.AskHelp())
}

// Strategy returns the selected retrieval strategy.
func (v *View) Strategy() domain.Strategy {
	return v.strategy
}

// Evaluate reports whether evaluation is requested.
func (v *View) Evaluate() bool {
	return v.evaluate
}

// Exchange returns the answer on display.
func (v *View) Exchange() *domain.QueryExchange {
	return v.exchange
}

// InputFocused returns true while the question input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// ShowSources reports whether sources are shown under the answer.
func (v *View) ShowSources() bool {
	return v.showSources
}

// Status returns the status bar state and message.
func (v *View) Status() (status.State, string) {
	return v.statusbar.State(), v.statusbar.Message()
}
