package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// mockDocumentAPI is a function-field mock of driven.DocumentAPI.
type mockDocumentAPI struct {
	UploadFunc     func(ctx context.Context, files []domain.UploadFile, strategy domain.Strategy) (*domain.UploadResult, error)
	ListFunc       func(ctx context.Context) ([]domain.Document, error)
	DeleteFunc     func(ctx context.Context, documentID string) error
	StrategiesFunc func(ctx context.Context) (*domain.StrategyInfo, error)

	mu          sync.Mutex
	uploadCalls int
	listCalls   int
	deleteCalls int
}

func (m *mockDocumentAPI) Upload(
	ctx context.Context,
	files []domain.UploadFile,
	strategy domain.Strategy,
) (*domain.UploadResult, error) {
	m.mu.Lock()
	m.uploadCalls++
	m.mu.Unlock()
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, files, strategy)
	}
	return &domain.UploadResult{}, nil
}

func (m *mockDocumentAPI) List(ctx context.Context) ([]domain.Document, error) {
	m.mu.Lock()
	m.listCalls++
	m.mu.Unlock()
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockDocumentAPI) Delete(ctx context.Context, documentID string) error {
	m.mu.Lock()
	m.deleteCalls++
	m.mu.Unlock()
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, documentID)
	}
	return nil
}

func (m *mockDocumentAPI) Strategies(ctx context.Context) (*domain.StrategyInfo, error) {
	if m.StrategiesFunc != nil {
		return m.StrategiesFunc(ctx)
	}
	return &domain.StrategyInfo{Available: domain.FallbackStrategies.Clone()}, nil
}

func (m *mockDocumentAPI) counts() (uploads, lists, deletes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploadCalls, m.listCalls, m.deleteCalls
}

// mockQAAPI is a function-field mock of driven.QAAPI.
type mockQAAPI struct {
	QueryFunc      func(ctx context.Context, req domain.QueryRequest) (*domain.QueryExchange, error)
	CompareFunc    func(ctx context.Context, question string, strategies domain.StrategySet, topK int) (*domain.CompareResult, error)
	StrategiesFunc func(ctx context.Context) (*domain.StrategyInfo, error)

	mu         sync.Mutex
	queryCalls int
}

func (m *mockQAAPI) Query(ctx context.Context, req domain.QueryRequest) (*domain.QueryExchange, error) {
	m.mu.Lock()
	m.queryCalls++
	m.mu.Unlock()
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, req)
	}
	return &domain.QueryExchange{Question: req.Question, Strategy: req.Strategy, Answer: "answer"}, nil
}

func (m *mockQAAPI) Compare(
	ctx context.Context,
	question string,
	strategies domain.StrategySet,
	topK int,
) (*domain.CompareResult, error) {
	if m.CompareFunc != nil {
		return m.CompareFunc(ctx, question, strategies, topK)
	}
	return &domain.CompareResult{Question: question, Strategies: strategies}, nil
}

func (m *mockQAAPI) Strategies(ctx context.Context) (*domain.StrategyInfo, error) {
	if m.StrategiesFunc != nil {
		return m.StrategiesFunc(ctx)
	}
	return &domain.StrategyInfo{Available: domain.FallbackStrategies.Clone()}, nil
}

func (m *mockQAAPI) queries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queryCalls
}
