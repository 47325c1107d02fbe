package memory

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure QAAPI implements the interface.
var _ driven.QAAPI = (*QAAPI)(nil)

// QAAPI is an in-memory implementation of driven.QAAPI that answers
// from the processed documents of a DocumentAPI.
type QAAPI struct {
	docs *DocumentAPI

	mu         sync.Mutex
	rec        recorder
	strategies domain.StrategySet
	current    domain.Strategy
	metrics    domain.Metrics
}

// NewQAAPI creates a QA service backed by docs.
func NewQAAPI(docs *DocumentAPI) *QAAPI {
	return &QAAPI{
		docs:       docs,
		rec:        newRecorder(),
		strategies: domain.FallbackStrategies.Clone(),
		current:    domain.StrategyVectorStore,
	}
}

// SetStrategies replaces the offered retrieval strategies.
func (q *QAAPI) SetStrategies(s domain.StrategySet, current domain.Strategy) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.strategies = s.Clone()
	q.current = current
}

// SetMetrics sets the metrics returned when evaluation is requested.
func (q *QAAPI) SetMetrics(m domain.Metrics) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.metrics = m
}

// FailNext makes the next call of op return err.
func (q *QAAPI) FailNext(op string, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.rec.failures[op] = append(q.rec.failures[op], err)
}

// Calls returns how many times op was invoked.
func (q *QAAPI) Calls(op string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.rec.calls[op]
}

// Query answers from up to TopK processed documents.
func (q *QAAPI) Query(_ context.Context, req domain.QueryRequest) (*domain.QueryExchange, error) {
	q.mu.Lock()
	err := q.rec.record(OpQuery)
	metrics := q.metrics
	known := q.strategies.Contains(req.Strategy)
	q.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return q.answer(req, metrics, known)
}

func (q *QAAPI) answer(req domain.QueryRequest, metrics domain.Metrics, known bool) (*domain.QueryExchange, error) {
	if !known {
		return nil, &domain.ServiceError{
			Op:         "submit query",
			StatusCode: http.StatusOK,
			Detail:     fmt.Sprintf("Unknown strategy: %s", req.Strategy),
		}
	}
	docs := q.docs.processed()
	if len(docs) == 0 {
		return nil, &domain.ServiceError{
			Op:         "submit query",
			StatusCode: http.StatusOK,
			Detail:     "No documents have been indexed yet.",
		}
	}

	topK := req.TopK
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	if len(docs) > topK {
		docs = docs[:topK]
	}

	ex := &domain.QueryExchange{
		Question:          req.Question,
		Strategy:          req.Strategy,
		EvaluationEnabled: req.EvaluationEnabled,
		Answer:            fmt.Sprintf("%s\nAnswered from %d documents.", req.Question, len(docs)),
	}
	for i, d := range docs {
		ex.Sources = append(ex.Sources, domain.Source{
			Filename:   d.Filename,
			DocumentID: d.ID,
			Score:      1 / float64(i+1),
			Snippet:    d.Filename,
		})
	}
	if req.EvaluationEnabled && len(metrics) > 0 {
		ex.Metrics = make(domain.Metrics, len(metrics))
		for k, v := range metrics {
			ex.Metrics[k] = v
		}
	}
	return ex, nil
}

// Compare answers once per strategy. Strategies the service does not
// offer are skipped.
func (q *QAAPI) Compare(
	_ context.Context,
	question string,
	strategies domain.StrategySet,
	topK int,
) (*domain.CompareResult, error) {
	q.mu.Lock()
	err := q.rec.record(OpCompare)
	offered := q.strategies.Clone()
	q.mu.Unlock()
	if err != nil {
		return nil, err
	}

	result := &domain.CompareResult{
		Question:   question,
		Strategies: strategies.Clone(),
		Results:    make(map[domain.Strategy]*domain.QueryExchange),
	}
	for _, s := range strategies {
		if !offered.Contains(s) {
			continue
		}
		ex, err := q.answer(domain.QueryRequest{Question: question, Strategy: s, TopK: topK}, nil, true)
		if err != nil {
			return nil, err
		}
		result.Results[s] = ex
	}
	return result, nil
}

// Strategies returns the offered retrieval strategies.
func (q *QAAPI) Strategies(_ context.Context) (*domain.StrategyInfo, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.rec.record(OpStrategies); err != nil {
		return nil, err
	}
	return &domain.StrategyInfo{Available: q.strategies.Clone(), Current: q.current}, nil
}
