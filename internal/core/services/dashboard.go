package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure Dashboard implements the interface.
var _ driving.Dashboard = (*Dashboard)(nil)

// Dashboard mediates between the document and query controllers.
// The controllers never call each other.
type Dashboard struct {
	documents *DocumentController
	query     *QueryController
	qa        driven.QAAPI
	topK      int

	qaStrategies     *StrategyCatalog
	uploadStrategies *StrategyCatalog

	submitting atomic.Bool
}

// NewDashboard wires the controllers to the service clients.
func NewDashboard(docs driven.DocumentAPI, qa driven.QAAPI, cfg domain.ClientConfig) *Dashboard {
	topK := cfg.TopK
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &Dashboard{
		documents:        NewDocumentController(docs),
		query:            NewQueryController(qa, topK),
		qa:               qa,
		topK:             topK,
		qaStrategies:     NewStrategyCatalog("qa", qa.Strategies),
		uploadStrategies: NewStrategyCatalog("upload", docs.Strategies),
	}
}

// Mount runs both strategy discoveries and the initial refresh
// concurrently. Failures are logged; fallbacks stay in place.
func (d *Dashboard) Mount(ctx context.Context) {
	logger.Section("Mount")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		d.DiscoverStrategies(ctx)
	}()
	go func() {
		defer wg.Done()
		_ = d.documents.HandleRefreshRequest(ctx, driving.RefreshRequest{Reason: driving.RefreshMount})
	}()
	wg.Wait()
}

// DiscoverStrategies refreshes the QA and upload strategy sets concurrently.
func (d *Dashboard) DiscoverStrategies(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		d.qaStrategies.Discover(ctx)
	}()
	go func() {
		defer wg.Done()
		d.uploadStrategies.Discover(ctx)
	}()
	wg.Wait()
}

// Refresh reloads the document list.
func (d *Dashboard) Refresh(ctx context.Context, req driving.RefreshRequest) error {
	return d.documents.HandleRefreshRequest(ctx, req)
}

// Upload sends files and, on success, requests exactly one refresh.
func (d *Dashboard) Upload(
	ctx context.Context,
	files []domain.UploadFile,
	strategy domain.Strategy,
) (*domain.UploadResult, error) {
	strategy, err := d.uploadStrategies.Resolve(strategy)
	if err != nil {
		return nil, err
	}

	result, err := d.documents.RequestUpload(ctx, files, strategy)
	if err != nil {
		return nil, err
	}

	// The upload succeeded; a failed refresh shows in the document state.
	_ = d.documents.HandleRefreshRequest(ctx, driving.RefreshRequest{Reason: driving.RefreshUpload})
	return result, nil
}

// Delete removes a document after confirm accepts the prompt.
// A nil or declining confirm makes no call.
func (d *Dashboard) Delete(ctx context.Context, documentID string, confirm driving.ConfirmFunc) (bool, error) {
	if confirm == nil || !confirm(driving.DeleteConfirmPrompt) {
		logger.Debug("delete of %s declined", documentID)
		return false, nil
	}
	return true, d.documents.RequestDelete(ctx, documentID)
}

// SubmitQuestion asks a question. While one is being answered further
// submissions are refused.
func (d *Dashboard) SubmitQuestion(
	ctx context.Context,
	question string,
	strategy domain.Strategy,
	evaluationEnabled bool,
) (*domain.QueryExchange, error) {
	strategy, err := d.qaStrategies.Resolve(strategy)
	if err != nil {
		return nil, err
	}
	if !d.submitting.CompareAndSwap(false, true) {
		return nil, &domain.ValidationError{
			Field:   "question",
			Message: "A question is already being answered.",
			Cause:   domain.ErrSubmissionInFlight,
		}
	}
	defer d.submitting.Store(false)

	return d.query.Submit(ctx, question, strategy, evaluationEnabled)
}

// Compare asks the same question with each strategy. An empty set
// compares every discovered QA strategy.
func (d *Dashboard) Compare(
	ctx context.Context,
	question string,
	strategies domain.StrategySet,
) (*domain.CompareResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.NewValidationError("question", domain.MsgEmptyQuestion)
	}
	if len(strategies) == 0 {
		strategies = d.qaStrategies.Strategies()
	}
	for _, s := range strategies {
		if _, err := d.qaStrategies.Resolve(s); err != nil {
			return nil, err
		}
	}

	result, err := d.qa.Compare(ctx, question, strategies, d.topK)
	if err != nil {
		return nil, fmt.Errorf("compare strategies: %w", err)
	}
	return result, nil
}

// AwaitSettled polls the document list until every id has finished indexing.
func (d *Dashboard) AwaitSettled(ctx context.Context, ids []string, interval time.Duration) ([]domain.Document, error) {
	return d.documents.AwaitSettled(ctx, ids, interval)
}

// View derives the state a surface renders.
func (d *Dashboard) View() driving.DashboardView {
	return driving.DashboardView{
		DocumentState:         d.documents.State(),
		QueryViewState:        d.query.State(),
		QAStrategies:          d.qaStrategies.Strategies(),
		UploadStrategies:      d.uploadStrategies.Strategies(),
		DefaultQAStrategy:     d.qaStrategies.Default(),
		DefaultUploadStrategy: d.uploadStrategies.Default(),
		CanSubmit:             !d.submitting.Load(),
	}
}
