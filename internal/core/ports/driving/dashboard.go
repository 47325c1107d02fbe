package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// LoadState is the document list loading state.
type LoadState string

// Document list loading states.
const (
	LoadIdle    LoadState = "idle"
	LoadLoading LoadState = "loading"
	LoadLoaded  LoadState = "loaded"
	LoadError   LoadState = "error"
)

// QueryState is the question submission state.
type QueryState string

// Question submission states.
const (
	QueryIdle       QueryState = "idle"
	QuerySubmitting QueryState = "submitting"
	QueryDone       QueryState = "done"
	QueryError      QueryState = "error"
)

// RefreshReason says why a document refresh was requested.
type RefreshReason string

// Refresh reasons.
const (
	RefreshMount  RefreshReason = "mount"
	RefreshUpload RefreshReason = "upload"
	RefreshDelete RefreshReason = "delete"
	RefreshPoll   RefreshReason = "poll"
	RefreshManual RefreshReason = "manual"
)

// RefreshRequest asks the document controller to reload the list.
// One request produces exactly one refresh.
type RefreshRequest struct {
	Reason RefreshReason
}

// ConfirmFunc asks the user to confirm a destructive action.
type ConfirmFunc func(prompt string) bool

// DeleteConfirmPrompt is the question asked before deleting a document.
const DeleteConfirmPrompt = "Are you sure you want to delete this document?"

// DocumentState is a snapshot of the document controller.
type DocumentState struct {
	Documents    []domain.Document
	Pending      []domain.Document
	LoadState    LoadState
	ErrorMessage string
}

// QueryViewState is a snapshot of the query controller.
type QueryViewState struct {
	Exchange     *domain.QueryExchange
	QueryState   QueryState
	ErrorMessage string
}

// DashboardView is the derived state a surface renders.
type DashboardView struct {
	DocumentState
	QueryViewState

	// QAStrategies is offered in the question form.
	QAStrategies domain.StrategySet

	// UploadStrategies is offered in the upload form.
	UploadStrategies domain.StrategySet

	// DefaultQAStrategy and DefaultUploadStrategy preselect the forms.
	DefaultQAStrategy     domain.Strategy
	DefaultUploadStrategy domain.Strategy

	// CanSubmit is false while a question is being answered.
	CanSubmit bool
}

// Unsettled reports whether any listed document is still being indexed.
func (v DashboardView) Unsettled() bool {
	for _, d := range v.Documents {
		if !d.Status.Settled() {
			return true
		}
	}
	return false
}

// Dashboard is the single coordinator for document and question workflows.
type Dashboard interface {
	// Mount discovers strategies and loads the initial document list.
	Mount(ctx context.Context)

	// DiscoverStrategies refreshes both strategy sets without touching documents.
	DiscoverStrategies(ctx context.Context)

	// Refresh reloads the document list.
	Refresh(ctx context.Context, req RefreshRequest) error

	// Upload sends files and refreshes the list once on success.
	Upload(ctx context.Context, files []domain.UploadFile, strategy domain.Strategy) (*domain.UploadResult, error)

	// Delete asks confirm first; a declined confirmation makes no call.
	// The returned bool reports whether the delete was attempted.
	Delete(ctx context.Context, documentID string, confirm ConfirmFunc) (bool, error)

	// SubmitQuestion asks a question. It is refused while another is in flight.
	SubmitQuestion(ctx context.Context, question string, strategy domain.Strategy, evaluationEnabled bool) (*domain.QueryExchange, error)

	// Compare asks the same question once per strategy.
	Compare(ctx context.Context, question string, strategies domain.StrategySet) (*domain.CompareResult, error)

	// AwaitSettled refreshes every interval until all ids are listed with a settled status.
	AwaitSettled(ctx context.Context, ids []string, interval time.Duration) ([]domain.Document, error)

	// View returns the derived dashboard state.
	View() DashboardView
}
