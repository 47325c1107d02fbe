// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewDocuments is the document list, the dashboard's home view.
	ViewDocuments ViewType = iota
	// ViewAsk is the question form and answer.
	ViewAsk
	// ViewUpload is the upload form.
	ViewUpload
	// ViewSettings is the settings editor.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewDocuments:
		return "documents"
	case ViewAsk:
		return "ask"
	case ViewUpload:
		return "upload"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Mounted signals that strategies were discovered and the first list loaded.
type Mounted struct{}

// RefreshRequested asks for one reload of the document list.
type RefreshRequested struct {
	Reason driving.RefreshReason
}

// DocumentsRefreshed signals a reload finished. The list itself is read
// from the dashboard view.
type DocumentsRefreshed struct {
	Reason driving.RefreshReason
	Err    error
}

// PollTick fires while documents are still being indexed.
type PollTick struct{}

// UploadStarted signals an upload call is in flight.
type UploadStarted struct {
	Files int
}

// Redraw re-reads the dashboard view without a remote call.
type Redraw struct{}

// UploadCompleted carries the upload acknowledgement.
type UploadCompleted struct {
	Result  *domain.UploadResult
	Skipped []string
	Err     error
}

// DeleteCompleted signals a delete prompt was answered. Attempted is
// false when the user declined.
type DeleteCompleted struct {
	DocumentID string
	Attempted  bool
	Err        error
}

// QuestionAnswered carries the answer to a submitted question.
type QuestionAnswered struct {
	Exchange *domain.QueryExchange
	Err      error
}

// SettingsLoaded carries the persisted settings.
type SettingsLoaded struct {
	Settings []driving.Setting
}

// SettingSaved signals a setting was stored or reset.
type SettingSaved struct {
	Key string
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
