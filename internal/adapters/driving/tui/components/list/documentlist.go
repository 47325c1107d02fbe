// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DocumentList displays documents and upload placeholders in a navigable list.
type DocumentList struct {
	rows     []domain.Document
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewDocumentList creates a new document list component.
func NewDocumentList(s *styles.Styles) *DocumentList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &DocumentList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the document list.
func (l *DocumentList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *DocumentList) Update(msg tea.Msg) (*DocumentList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the list.
func (l *DocumentList) View() string {
	if len(l.rows) == 0 {
		return l.styles.Muted.Render("No documents uploaded yet. Press u to upload.")
	}

	visible := l.height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.rows) {
		end = len(l.rows)
	}

	lines := make([]string, 0, end-start+2)
	lines = append(lines, l.styles.Muted.Render(l.header()))
	for i := start; i < end; i++ {
		lines = append(lines, l.renderRow(i, l.rows[i]))
	}
	if end < len(l.rows) {
		lines = append(lines, l.styles.Muted.Render(fmt.Sprintf("  ... %d more", len(l.rows)-end)))
	}
	return strings.Join(lines, "\n")
}

func (l *DocumentList) nameWidth() int {
	w := l.width - 46
	if w < 12 {
		w = 12
	}
	return w
}

func (l *DocumentList) header() string {
	return fmt.Sprintf("  %-*s  %-11s  %-16s  %5s", l.nameWidth(), "FILE", "STATUS", "STRATEGY", "PAGES")
}

func (l *DocumentList) renderRow(index int, d domain.Document) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	name := truncate(d.Filename, l.nameWidth())
	status := d.Status.String()
	statusStyle := l.styles.Status(d.Status)
	pages := fmt.Sprintf("%5d", d.NumPages)
	if d.Placeholder {
		status = "uploading"
		statusStyle = l.styles.Muted
		pages = fmt.Sprintf("%5s", "-")
	}
	strategy := truncate(d.IndexingStrategy.DisplayName(), 16)

	if index == l.selected {
		return l.styles.Selected.Render(fmt.Sprintf("%s%-*s  %-11s  %-16s  %s",
			indicator, l.nameWidth(), name, status, strategy, pages))
	}
	return l.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, l.nameWidth(), name)) +
		statusStyle.Render(fmt.Sprintf("%-11s", status)) +
		l.styles.Muted.Render(fmt.Sprintf("  %-16s  %s", strategy, pages))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

// SetDocuments replaces the rows with the service list followed by
// placeholders. The selection follows the previously selected id.
func (l *DocumentList) SetDocuments(documents, pending []domain.Document) {
	var selectedID string
	if d := l.SelectedDocument(); d != nil {
		selectedID = d.ID
	}

	rows := make([]domain.Document, 0, len(documents)+len(pending))
	rows = append(rows, documents...)
	rows = append(rows, pending...)
	l.rows = rows

	l.selected = 0
	for i, d := range rows {
		if d.ID == selectedID {
			l.selected = i
			break
		}
	}
}

// Documents returns the displayed rows.
func (l *DocumentList) Documents() []domain.Document {
	return l.rows
}

// Selected returns the index of the selected row.
func (l *DocumentList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *DocumentList) SetSelected(index int) {
	if index >= 0 && index < len(l.rows) {
		l.selected = index
	}
}

// SelectedDocument returns the selected row, or nil if the list is empty.
func (l *DocumentList) SelectedDocument() *domain.Document {
	if l.selected < 0 || l.selected >= len(l.rows) {
		return nil
	}
	return &l.rows[l.selected]
}

// MoveUp moves selection up.
func (l *DocumentList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *DocumentList) MoveDown() {
	if l.selected < len(l.rows)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *DocumentList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of rows.
func (l *DocumentList) Count() int {
	return len(l.rows)
}

// IsEmpty returns whether the list is empty.
func (l *DocumentList) IsEmpty() bool {
	return len(l.rows) == 0
}
