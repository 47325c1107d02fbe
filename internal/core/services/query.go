package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// QueryController owns the current question/answer exchange.
// It neither queues nor cancels submissions.
type QueryController struct {
	api  driven.QAAPI
	topK int

	mu           sync.RWMutex
	exchange     *domain.QueryExchange
	queryState   driving.QueryState
	errorMessage string
}

// NewQueryController creates a controller in the idle state.
func NewQueryController(api driven.QAAPI, topK int) *QueryController {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &QueryController{
		api:        api,
		topK:       topK,
		queryState: driving.QueryIdle,
	}
}

// Submit asks a question. A blank question is rejected without any
// call or state change. The previous exchange stays visible until the
// new answer replaces it.
func (c *QueryController) Submit(
	ctx context.Context,
	question string,
	strategy domain.Strategy,
	evaluationEnabled bool,
) (*domain.QueryExchange, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.NewValidationError("question", domain.MsgEmptyQuestion)
	}

	c.mu.Lock()
	c.queryState = driving.QuerySubmitting
	c.errorMessage = ""
	c.mu.Unlock()

	logger.Debug("submitting question with strategy %s (evaluation=%t)", strategy, evaluationEnabled)
	exchange, err := c.api.Query(ctx, domain.QueryRequest{
		Question:          question,
		Strategy:          strategy,
		TopK:              c.topK,
		EvaluationEnabled: evaluationEnabled,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.queryState = driving.QueryError
		c.errorMessage = domain.UserMessage(err, domain.MsgQueryFailed)
		logger.Warn("submit question: %v", err)
		return nil, fmt.Errorf("submit question: %w", err)
	}
	c.exchange = exchange
	c.queryState = driving.QueryDone
	return exchange, nil
}

// State returns a snapshot of the controller state.
func (c *QueryController) State() driving.QueryViewState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return driving.QueryViewState{
		Exchange:     c.exchange,
		QueryState:   c.queryState,
		ErrorMessage: c.errorMessage,
	}
}
