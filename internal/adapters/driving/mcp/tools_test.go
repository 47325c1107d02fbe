package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

func newTestServer(t *testing.T, dashboard *mockDashboard) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Dashboard: dashboard})
	require.NoError(t, err)
	return server
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer with sources", func(t *testing.T) {
		dashboard := &mockDashboard{
			exchange: &domain.QueryExchange{
				Question: "What is covered?",
				Strategy: domain.StrategySentenceWindow,
				Answer:   "Everything.",
				Sources: []domain.Source{
					{Filename: "policy.pdf", DocumentID: "doc-1", Score: 0.9, Snippet: "covers everything"},
				},
			},
		}
		server := newTestServer(t, dashboard)

		input := AskInput{Question: "What is covered?", Strategy: "sentence_window"}
		_, output, err := server.handleAsk(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "Everything.", output.Answer)
		assert.Equal(t, "sentence_window", output.Strategy)
		require.Len(t, output.Sources, 1)
		assert.Equal(t, "policy.pdf", output.Sources[0].Filename)
		assert.Equal(t, 0.9, output.Sources[0].Score)
		assert.Empty(t, output.Metrics)
		assert.Equal(t, domain.StrategySentenceWindow, dashboard.lastStrategy)
		assert.False(t, dashboard.lastEval)
	})

	t.Run("includes metrics only when evaluation ran", func(t *testing.T) {
		dashboard := &mockDashboard{
			exchange: &domain.QueryExchange{
				Answer:            "Yes.",
				EvaluationEnabled: true,
				Metrics: domain.Metrics{
					"faithfulness": domain.NumericMetric("faithfulness", 0.82),
					"relevancy":    domain.TextualMetric("relevancy", "high"),
				},
			},
		}
		server := newTestServer(t, dashboard)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "Q", Evaluate: true})

		require.NoError(t, err)
		assert.True(t, dashboard.lastEval)
		assert.Equal(t, []MetricOutput{
			{Name: "faithfulness", Value: "82.0%"},
			{Name: "relevancy", Value: "high"},
		}, output.Metrics)
	})

	t.Run("validation errors pass through", func(t *testing.T) {
		dashboard := &mockDashboard{err: domain.NewValidationError("question", "Please enter a question.")}
		server := newTestServer(t, dashboard)

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "  "})

		require.Error(t, err)
		assert.Equal(t, "Please enter a question.", err.Error())
	})

	t.Run("remote failures show the user message", func(t *testing.T) {
		dashboard := &mockDashboard{err: &domain.TransportError{Op: "submit query", Err: errors.New("refused")}}
		server := newTestServer(t, dashboard)

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "Q"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), domain.MsgQueryFailed)
		assert.ErrorIs(t, err, domain.ErrTransport)
	})
}

func TestServer_handleCompare(t *testing.T) {
	dashboard := &mockDashboard{
		compare: &domain.CompareResult{
			Question:   "Q",
			Strategies: domain.StrategySet{"vector_store", "hybrid", "sentence_window"},
			Results: map[domain.Strategy]*domain.QueryExchange{
				"sentence_window": {Strategy: "sentence_window", Answer: "B"},
				"vector_store":    {Strategy: "vector_store", Answer: "A"},
			},
		},
	}
	server := newTestServer(t, dashboard)

	_, output, err := server.handleCompare(context.Background(), nil, CompareInput{Question: "Q"})

	require.NoError(t, err)
	require.Len(t, output.Results, 2)
	assert.Equal(t, "vector_store", output.Results[0].Strategy)
	assert.Equal(t, "sentence_window", output.Results[1].Strategy)
	assert.Equal(t, []string{"hybrid"}, output.Skipped)
}

func TestServer_handleListDocuments(t *testing.T) {
	t.Run("returns documents", func(t *testing.T) {
		dashboard := &mockDashboard{
			view: driving.DashboardView{DocumentState: driving.DocumentState{
				Documents: []domain.Document{
					{ID: "doc-1", Filename: "a.pdf", Status: domain.StatusProcessed, NumPages: 3, IndexingStrategy: "vector_store"},
				},
			}},
		}
		server := newTestServer(t, dashboard)

		_, output, err := server.handleListDocuments(context.Background(), nil, ListDocumentsInput{})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, DocumentOutput{
			ID: "doc-1", Filename: "a.pdf", Status: "processed", Strategy: "vector_store", Pages: 3,
		}, output.Documents[0])
	})

	t.Run("returns error on load failure", func(t *testing.T) {
		dashboard := &mockDashboard{err: &domain.ServiceError{Op: "list documents", StatusCode: 500}}
		server := newTestServer(t, dashboard)

		_, _, err := server.handleListDocuments(context.Background(), nil, ListDocumentsInput{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), domain.MsgLoadFailed)
	})
}

func TestServer_handleListStrategies(t *testing.T) {
	dashboard := &mockDashboard{
		view: driving.DashboardView{
			QAStrategies:          domain.StrategySet{"vector_store", "sentence_window"},
			UploadStrategies:      domain.StrategySet{"vector_store"},
			DefaultQAStrategy:     "sentence_window",
			DefaultUploadStrategy: "vector_store",
		},
	}
	server := newTestServer(t, dashboard)

	_, output, err := server.handleListStrategies(context.Background(), nil, ListStrategiesInput{})

	require.NoError(t, err)
	assert.True(t, dashboard.discovered)
	require.Len(t, output.Retrieval, 2)
	assert.False(t, output.Retrieval[0].Default)
	assert.True(t, output.Retrieval[1].Default)
	assert.Equal(t, "Sentence Window", output.Retrieval[1].DisplayName)
	require.Len(t, output.Indexing, 1)
	assert.True(t, output.Indexing[0].Default)
}

func TestServer_handleDeleteDocument(t *testing.T) {
	t.Run("unconfirmed delete makes no call", func(t *testing.T) {
		dashboard := &mockDashboard{}
		server := newTestServer(t, dashboard)

		_, output, err := server.handleDeleteDocument(context.Background(), nil, DeleteDocumentInput{DocumentID: "doc-1"})

		require.NoError(t, err)
		assert.False(t, output.Deleted)
		assert.Contains(t, output.Message, driving.DeleteConfirmPrompt)
		assert.Equal(t, 0, dashboard.deleteCalls)
	})

	t.Run("confirmed delete", func(t *testing.T) {
		dashboard := &mockDashboard{}
		server := newTestServer(t, dashboard)

		_, output, err := server.handleDeleteDocument(context.Background(), nil,
			DeleteDocumentInput{DocumentID: "doc-1", Confirm: true})

		require.NoError(t, err)
		assert.True(t, output.Deleted)
		assert.Equal(t, 1, dashboard.deleteCalls)
	})

	t.Run("failed delete", func(t *testing.T) {
		dashboard := &mockDashboard{err: &domain.ServiceError{Op: "delete document", StatusCode: 500}}
		server := newTestServer(t, dashboard)

		_, _, err := server.handleDeleteDocument(context.Background(), nil,
			DeleteDocumentInput{DocumentID: "doc-1", Confirm: true})

		require.Error(t, err)
		assert.Contains(t, err.Error(), domain.MsgDeleteFailed)
	})
}
