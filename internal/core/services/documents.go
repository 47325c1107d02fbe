package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// placeholderPrefix marks client-side ids that never come from the service.
const placeholderPrefix = "pending-"

// DocumentController owns the document list and its loading state.
//
// The mutex only protects the fields; it is never held across a remote
// call. Overlapping refreshes therefore resolve last-to-resolve-wins.
type DocumentController struct {
	api driven.DocumentAPI

	mu           sync.RWMutex
	documents    []domain.Document
	pending      []domain.Document
	loadState    driving.LoadState
	errorMessage string
}

// NewDocumentController creates a controller in the idle state.
func NewDocumentController(api driven.DocumentAPI) *DocumentController {
	return &DocumentController{
		api:       api,
		loadState: driving.LoadIdle,
	}
}

// Refresh replaces the document list with a fresh snapshot.
// On failure the previous list is kept and an error message is set.
func (c *DocumentController) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.loadState = driving.LoadLoading
	c.mu.Unlock()

	docs, err := c.api.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.loadState = driving.LoadError
		c.errorMessage = domain.UserMessage(err, domain.MsgLoadFailed)
		logger.Warn("list documents: %v", err)
		return fmt.Errorf("refresh documents: %w", err)
	}
	c.documents = docs
	c.loadState = driving.LoadLoaded
	c.errorMessage = ""
	logger.Debug("refreshed %d documents", len(docs))
	return nil
}

// HandleRefreshRequest performs the one refresh a request asks for.
func (c *DocumentController) HandleRefreshRequest(ctx context.Context, req driving.RefreshRequest) error {
	logger.Debug("refresh requested (%s)", req.Reason)
	return c.Refresh(ctx)
}

// RequestUpload validates and uploads files. Placeholders are shown
// while the call is outstanding. The caller is responsible for the
// follow-up refresh.
func (c *DocumentController) RequestUpload(
	ctx context.Context,
	files []domain.UploadFile,
	strategy domain.Strategy,
) (*domain.UploadResult, error) {
	if len(files) == 0 {
		err := domain.NewValidationError("files", "Please select at least one file.")
		c.setError(err.Message)
		return nil, err
	}

	placeholders := make([]domain.Document, len(files))
	for i, f := range files {
		placeholders[i] = domain.Document{
			ID:               placeholderPrefix + uuid.NewString(),
			Filename:         f.Name,
			Status:           domain.StatusUploaded,
			IndexingStrategy: strategy,
			Placeholder:      true,
		}
	}
	c.mu.Lock()
	c.pending = append(c.pending, placeholders...)
	c.errorMessage = ""
	c.mu.Unlock()

	result, err := c.api.Upload(ctx, files, strategy)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = withoutPlaceholders(c.pending, placeholders)
	if err != nil {
		c.errorMessage = domain.UserMessage(err, domain.MsgUploadFailed)
		logger.Warn("upload %d files: %v", len(files), err)
		return nil, fmt.Errorf("upload documents: %w", err)
	}
	logger.Info("uploaded %d files with strategy %s", len(files), strategy)
	return result, nil
}

// RequestDelete deletes a document and refreshes the list when the
// document is gone, including when the service no longer knew it.
// Other failures leave the list untouched.
func (c *DocumentController) RequestDelete(ctx context.Context, documentID string) error {
	err := c.api.Delete(ctx, documentID)
	switch {
	case err == nil:
		logger.Info("deleted document %s", documentID)
	case errors.Is(err, domain.ErrNotFound):
		logger.Info("document %s was already deleted", documentID)
	default:
		c.setError(domain.UserMessage(err, domain.MsgDeleteFailed))
		logger.Warn("delete document %s: %v", documentID, err)
		return fmt.Errorf("delete document: %w", err)
	}
	return c.HandleRefreshRequest(ctx, driving.RefreshRequest{Reason: driving.RefreshDelete})
}

// AwaitSettled refreshes every interval until each id is listed with a
// settled status, then returns those documents in id order. Refresh
// failures are retried until ctx is done.
func (c *DocumentController) AwaitSettled(
	ctx context.Context,
	ids []string,
	interval time.Duration,
) ([]domain.Document, error) {
	if interval <= 0 {
		interval = domain.DefaultPollInterval
	}

	for {
		if err := c.HandleRefreshRequest(ctx, driving.RefreshRequest{Reason: driving.RefreshPoll}); err == nil {
			if docs, ok := c.settled(ids); ok {
				return docs, nil
			}
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("await indexing: %w", ctx.Err())
		case <-timer.C:
		}
	}
}

func (c *DocumentController) settled(ids []string) ([]domain.Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	byID := make(map[string]domain.Document, len(c.documents))
	for _, d := range c.documents {
		byID[d.ID] = d
	}
	out := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		d, ok := byID[id]
		if !ok || !d.Status.Settled() {
			return nil, false
		}
		out = append(out, d)
	}
	return out, true
}

// State returns a copy of the controller state.
func (c *DocumentController) State() driving.DocumentState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return driving.DocumentState{
		Documents:    append([]domain.Document(nil), c.documents...),
		Pending:      append([]domain.Document(nil), c.pending...),
		LoadState:    c.loadState,
		ErrorMessage: c.errorMessage,
	}
}

func (c *DocumentController) setError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorMessage = msg
}

func withoutPlaceholders(pending, remove []domain.Document) []domain.Document {
	drop := make(map[string]bool, len(remove))
	for _, d := range remove {
		drop[d.ID] = true
	}
	out := pending[:0]
	for _, d := range pending {
		if !drop[d.ID] {
			out = append(out, d)
		}
	}
	return out
}
