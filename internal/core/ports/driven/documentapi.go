package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DocumentAPI talks to the document side of the remote service.
// Implementations perform no retries and hold no state between calls.
type DocumentAPI interface {
	// Upload sends files in one multipart request, tagged with the indexing strategy.
	// An empty file set fails with a ValidationError before any request is made.
	Upload(ctx context.Context, files []domain.UploadFile, strategy domain.Strategy) (*domain.UploadResult, error)

	// List returns the full document snapshot.
	List(ctx context.Context) ([]domain.Document, error)

	// Delete removes a document. Unknown ids fail with an error matching domain.ErrNotFound.
	Delete(ctx context.Context, documentID string) error

	// Strategies returns the indexing strategies accepted at upload time.
	Strategies(ctx context.Context) (*domain.StrategyInfo, error)
}
