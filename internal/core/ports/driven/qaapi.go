package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// QAAPI talks to the question-answering side of the remote service.
type QAAPI interface {
	// Query asks one question with one strategy.
	Query(ctx context.Context, req domain.QueryRequest) (*domain.QueryExchange, error)

	// Compare asks the same question once per strategy.
	Compare(ctx context.Context, question string, strategies domain.StrategySet, topK int) (*domain.CompareResult, error)

	// Strategies returns the retrieval strategies available for questions.
	Strategies(ctx context.Context) (*domain.StrategyInfo, error)
}
