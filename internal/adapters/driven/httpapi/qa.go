package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure QAClient implements the interface.
var _ driven.QAAPI = (*QAClient)(nil)

// QAClient asks questions against the indexed documents.
type QAClient struct {
	c    *client
	topK int
}

// NewQAClient creates a QA client from explicit configuration.
func NewQAClient(cfg domain.ClientConfig) *QAClient {
	topK := cfg.TopK
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &QAClient{c: newClient(cfg), topK: topK}
}

// Query asks one question. The service reports some failures with a 200
// reply carrying an "error" field; those are returned as ServiceErrors.
func (q *QAClient) Query(ctx context.Context, req domain.QueryRequest) (*domain.QueryExchange, error) {
	if req.TopK <= 0 {
		req.TopK = q.topK
	}

	var resp queryResponse
	err := q.c.postJSON(ctx, "submit query", "/qa/query", queryRequest{
		Question:         req.Question,
		Strategy:         string(req.Strategy),
		SimilarityTopK:   req.TopK,
		EnableEvaluation: req.EvaluationEnabled,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &domain.ServiceError{Op: "submit query", StatusCode: http.StatusOK, Detail: resp.Error}
	}
	return toExchange(req, resp), nil
}

// Compare asks the same question with several strategies.
// Strategies the service did not answer are reported by CompareResult.Skipped.
// A 200 reply with a top-level "error" field is a ServiceError, as for Query.
func (q *QAClient) Compare(
	ctx context.Context,
	question string,
	strategies domain.StrategySet,
	topK int,
) (*domain.CompareResult, error) {
	if topK <= 0 {
		topK = q.topK
	}

	var raw map[string]json.RawMessage
	err := q.c.postJSON(ctx, "compare strategies", "/qa/compare", compareRequest{
		Question:       question,
		Strategies:     strategies.Strings(),
		SimilarityTopK: topK,
	}, &raw)
	if err != nil {
		return nil, err
	}

	if msg, ok := raw["error"]; ok {
		var detail string
		if err := json.Unmarshal(msg, &detail); err != nil || detail == "" {
			detail = truncate(string(msg))
		}
		return nil, &domain.ServiceError{Op: "compare strategies", StatusCode: http.StatusOK, Detail: detail}
	}

	// Replies are either {query, strategies_compared, results: {...}} or a bare map.
	results := raw
	if nested, ok := raw["results"]; ok {
		results = nil
		if err := json.Unmarshal(nested, &results); err != nil {
			return nil, &domain.ServiceError{Op: "compare strategies", StatusCode: http.StatusOK, Detail: "malformed results"}
		}
	}

	out := &domain.CompareResult{
		Question:   question,
		Strategies: strategies.Clone(),
		Results:    make(map[domain.Strategy]*domain.QueryExchange, len(results)),
	}
	for _, s := range strategies {
		body, ok := results[string(s)]
		if !ok {
			continue
		}
		var resp queryResponse
		if err := json.Unmarshal(body, &resp); err != nil || resp.Error != "" {
			continue
		}
		out.Results[s] = toExchange(domain.QueryRequest{Question: question, Strategy: s, TopK: topK}, resp)
	}
	return out, nil
}

// Strategies returns the retrieval strategies available for questions.
func (q *QAClient) Strategies(ctx context.Context) (*domain.StrategyInfo, error) {
	var resp strategiesResponse
	if err := q.c.getJSON(ctx, "list qa strategies", "/qa/strategies", &resp); err != nil {
		return nil, err
	}
	return toStrategyInfo(resp), nil
}
