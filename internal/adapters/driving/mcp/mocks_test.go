package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// mockDashboard is a mock implementation of driving.Dashboard.
type mockDashboard struct {
	view        driving.DashboardView
	exchange    *domain.QueryExchange
	compare     *domain.CompareResult
	deleteCalls int
	mounted     bool
	discovered  bool
	err         error

	lastQuestion string
	lastStrategy domain.Strategy
	lastEval     bool
	confirmed    bool
}

func (m *mockDashboard) Mount(_ context.Context) {
	m.mounted = true
}

func (m *mockDashboard) DiscoverStrategies(_ context.Context) {
	m.discovered = true
}

func (m *mockDashboard) Refresh(_ context.Context, _ driving.RefreshRequest) error {
	return m.err
}

func (m *mockDashboard) Upload(
	_ context.Context,
	_ []domain.UploadFile,
	_ domain.Strategy,
) (*domain.UploadResult, error) {
	return &domain.UploadResult{}, m.err
}

func (m *mockDashboard) Delete(_ context.Context, _ string, confirm driving.ConfirmFunc) (bool, error) {
	if confirm == nil || !confirm(driving.DeleteConfirmPrompt) {
		return false, nil
	}
	m.confirmed = true
	m.deleteCalls++
	return true, m.err
}

func (m *mockDashboard) SubmitQuestion(
	_ context.Context,
	question string,
	strategy domain.Strategy,
	evaluationEnabled bool,
) (*domain.QueryExchange, error) {
	m.lastQuestion = question
	m.lastStrategy = strategy
	m.lastEval = evaluationEnabled
	return m.exchange, m.err
}

func (m *mockDashboard) Compare(
	_ context.Context,
	_ string,
	_ domain.StrategySet,
) (*domain.CompareResult, error) {
	return m.compare, m.err
}

func (m *mockDashboard) AwaitSettled(_ context.Context, _ []string, _ time.Duration) ([]domain.Document, error) {
	return m.view.Documents, m.err
}

func (m *mockDashboard) View() driving.DashboardView {
	return m.view
}
