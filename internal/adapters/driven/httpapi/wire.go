package httpapi

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// documentDTO is one entry of GET /documents/list.
type documentDTO struct {
	DocumentID       string `json:"document_id"`
	Filename         string `json:"filename"`
	FilePath         string `json:"file_path"`
	NumPages         int    `json:"num_pages"`
	Status           string `json:"status"`
	IndexingStrategy string `json:"indexing_strategy"`
}

type listResponse struct {
	Documents []documentDTO `json:"documents"`
	Total     int           `json:"total"`
}

type uploadedDTO struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
	NumChunks  int    `json:"num_chunks"`
}

type uploadResponse struct {
	Documents []uploadedDTO `json:"documents"`
	Message   string        `json:"message"`
}

type strategiesResponse struct {
	Strategies []string `json:"strategies"`
	Current    string   `json:"current"`
}

type queryRequest struct {
	Question         string `json:"question"`
	Strategy         string `json:"strategy"`
	SimilarityTopK   int    `json:"similarity_top_k"`
	EnableEvaluation bool   `json:"enable_evaluation"`
}

type sourceDTO struct {
	Filename    string  `json:"filename"`
	DocumentID  string  `json:"document_id"`
	Score       float64 `json:"score"`
	TextSnippet string  `json:"text_snippet"`
}

// queryResponse covers both the plain answer shape and the evaluation
// shape, which carries the answer in "response" and the question in "query".
type queryResponse struct {
	Answer            string                     `json:"answer"`
	Response          string                     `json:"response"`
	Query             string                     `json:"query"`
	Sources           []sourceDTO                `json:"sources"`
	Strategy          string                     `json:"strategy"`
	EvaluationEnabled *bool                      `json:"evaluation_enabled"`
	Metrics           map[string]json.RawMessage `json:"metrics"`
	Error             string                     `json:"error"`
}

type compareRequest struct {
	Question       string   `json:"question"`
	Strategies     []string `json:"strategies"`
	SimilarityTopK int      `json:"similarity_top_k"`
}

type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
	Error  string          `json:"error"`
}

func toDocument(d documentDTO) domain.Document {
	pages := d.NumPages
	if pages < 0 {
		pages = 0
	}
	return domain.Document{
		ID:               d.DocumentID,
		Filename:         d.Filename,
		FilePath:         d.FilePath,
		NumPages:         pages,
		Status:           domain.DocumentStatus(d.Status),
		IndexingStrategy: domain.Strategy(d.IndexingStrategy),
	}
}

func toDocuments(resp listResponse) []domain.Document {
	docs := make([]domain.Document, 0, len(resp.Documents))
	for _, d := range resp.Documents {
		docs = append(docs, toDocument(d))
	}
	return docs
}

func toUploadResult(resp uploadResponse) *domain.UploadResult {
	result := &domain.UploadResult{Message: resp.Message}
	for _, d := range resp.Documents {
		result.Documents = append(result.Documents, domain.UploadedDocument{
			DocumentID: d.DocumentID,
			Filename:   d.Filename,
			Status:     d.Status,
			NumChunks:  d.NumChunks,
		})
	}
	return result
}

func toStrategyInfo(resp strategiesResponse) *domain.StrategyInfo {
	return &domain.StrategyInfo{
		Available: domain.NewStrategySet(resp.Strategies),
		Current:   domain.Strategy(resp.Current),
	}
}

// toExchange converts a query reply. The request fills in whatever the
// service leaves out.
func toExchange(req domain.QueryRequest, resp queryResponse) *domain.QueryExchange {
	answer := resp.Answer
	if answer == "" {
		answer = resp.Response
	}
	strategy := req.Strategy
	if resp.Strategy != "" {
		strategy = domain.Strategy(resp.Strategy)
	}
	evaluation := req.EvaluationEnabled
	if resp.EvaluationEnabled != nil {
		evaluation = *resp.EvaluationEnabled
	}

	ex := &domain.QueryExchange{
		Question:          req.Question,
		Strategy:          strategy,
		EvaluationEnabled: evaluation,
		Answer:            answer,
	}
	for _, s := range resp.Sources {
		ex.Sources = append(ex.Sources, domain.Source{
			Filename:   s.Filename,
			DocumentID: s.DocumentID,
			Score:      s.Score,
			Snippet:    s.TextSnippet,
		})
	}
	if evaluation && len(resp.Metrics) > 0 {
		ex.Metrics = make(domain.Metrics, len(resp.Metrics))
		for name, raw := range resp.Metrics {
			ex.Metrics[name] = decodeMetric(name, raw)
		}
	}
	return ex
}

type metricObject struct {
	Score  json.RawMessage `json:"score"`
	Reason string          `json:"reason"`
}

// decodeMetric accepts {score, reason} objects as well as bare scores.
// Numeric scores become numeric metrics; everything else is kept as text.
func decodeMetric(name string, raw json.RawMessage) domain.Metric {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var obj metricObject
		if err := json.Unmarshal(raw, &obj); err == nil && len(obj.Score) > 0 {
			m := decodeScore(name, obj.Score)
			m.Reason = obj.Reason
			return m
		}
	}
	return decodeScore(name, raw)
}

// decodeScore turns one score into a metric. A null score means the
// evaluator did not run and yields an empty textual metric.
func decodeScore(name string, raw json.RawMessage) domain.Metric {
	if bytes.Equal(raw, []byte("null")) {
		return domain.TextualMetric(name, "")
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return domain.NumericMetric(name, f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return domain.TextualMetric(name, s)
	}
	return domain.TextualMetric(name, string(raw))
}

// decodeDetail extracts a readable message from an error body. FastAPI
// reports either a string or a list of {msg} objects in "detail".
func decodeDetail(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return truncate(strings.TrimSpace(string(body)))
	}
	if er.Error != "" {
		return er.Error
	}
	if len(er.Detail) == 0 {
		return truncate(strings.TrimSpace(string(body)))
	}

	var s string
	if err := json.Unmarshal(er.Detail, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(er.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return truncate(string(er.Detail))
}

const maxDetailLen = 200

// truncate shortens s to at most maxDetailLen bytes without splitting a rune.
func truncate(s string) string {
	if len(s) <= maxDetailLen {
		return s
	}
	cut := maxDetailLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
