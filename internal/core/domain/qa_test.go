package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{0.82, "82.0%"},
		{1, "100.0%"},
		{0, "0.0%"},
		{0.4567, "45.7%"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPercent(tt.value))
		})
	}
}

func TestMetric_Display(t *testing.T) {
	assert.Equal(t, "82.0%", NumericMetric("faithfulness", 0.82).Display())
	assert.Equal(t, "high", TextualMetric("relevance", "high").Display())
}

func TestMetrics_Sorted(t *testing.T) {
	metrics := Metrics{
		"Groundedness":     NumericMetric("Groundedness", 0.5),
		"Answer Relevance": NumericMetric("Answer Relevance", 0.9),
		"Context":          {Kind: MetricTextual, Text: "n/a"},
	}

	sorted := metrics.Sorted()

	assert.Len(t, sorted, 3)
	assert.Equal(t, "Answer Relevance", sorted[0].Name)
	assert.Equal(t, "Context", sorted[1].Name)
	assert.Equal(t, "Groundedness", sorted[2].Name)
}

func TestQueryExchange_Paragraphs(t *testing.T) {
	q := &QueryExchange{Answer: "First.\nSecond.\n\nFourth."}

	assert.Equal(t, []string{"First.", "Second.", "", "Fourth."}, q.Paragraphs())

	var empty *QueryExchange
	assert.Nil(t, empty.Paragraphs())
}

func TestQueryExchange_ShowMetrics(t *testing.T) {
	tests := []struct {
		name     string
		exchange *QueryExchange
		expected bool
	}{
		{"nil exchange", nil, false},
		{"evaluation disabled", &QueryExchange{EvaluationEnabled: false, Metrics: Metrics{"a": NumericMetric("a", 1)}}, false},
		{"no metrics", &QueryExchange{EvaluationEnabled: true}, false},
		{"metrics present", &QueryExchange{EvaluationEnabled: true, Metrics: Metrics{"a": NumericMetric("a", 1)}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.exchange.ShowMetrics())
		})
	}
}

func TestSource_ScorePercent(t *testing.T) {
	s := Source{Filename: "policy.pdf", Score: 0.731}
	assert.Equal(t, "73.1%", s.ScorePercent())
}

func TestCompareResult_Skipped(t *testing.T) {
	result := &CompareResult{
		Question:   "Q",
		Strategies: StrategySet{StrategyVectorStore, StrategySentenceWindow},
		Results: map[Strategy]*QueryExchange{
			StrategyVectorStore: {Answer: "A"},
		},
	}

	assert.Equal(t, StrategySet{StrategySentenceWindow}, result.Skipped())

	var empty *CompareResult
	assert.Nil(t, empty.Skipped())
}

func TestDefaultClientConfig(t *testing.T) {
	cfg := DefaultClientConfig()

	assert.Equal(t, "http://localhost:8080/api", cfg.BaseURL)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Zero(t, cfg.RequestsPerSecond)
}

func TestClientConfig_ApplyAndValue(t *testing.T) {
	cfg := DefaultClientConfig()

	assert.NoError(t, cfg.Apply(KeyBaseURL, " http://qa.internal/api "))
	assert.NoError(t, cfg.Apply(KeyTimeout, "30s"))
	assert.NoError(t, cfg.Apply(KeyPollInterval, "500ms"))
	assert.NoError(t, cfg.Apply(KeyRequestsPerSecond, "2.5"))
	assert.NoError(t, cfg.Apply(KeyTopK, "8"))
	assert.NoError(t, cfg.Apply(KeyLogFile, "/tmp/docqa.log"))

	assert.Equal(t, "http://qa.internal/api", cfg.Value(KeyBaseURL))
	assert.Equal(t, "30s", cfg.Value(KeyTimeout))
	assert.Equal(t, "500ms", cfg.Value(KeyPollInterval))
	assert.Equal(t, "2.5", cfg.Value(KeyRequestsPerSecond))
	assert.Equal(t, "8", cfg.Value(KeyTopK))
	assert.Equal(t, "/tmp/docqa.log", cfg.Value(KeyLogFile))
}

func TestClientConfig_ApplyInvalid(t *testing.T) {
	cfg := DefaultClientConfig()

	assert.ErrorIs(t, cfg.Apply(KeyTimeout, "soon"), ErrInvalidInput)
	assert.ErrorIs(t, cfg.Apply(KeyTopK, "many"), ErrInvalidInput)
	assert.ErrorIs(t, cfg.Apply(KeyRequestsPerSecond, "fast"), ErrInvalidInput)
	assert.ErrorIs(t, cfg.Apply("search.mode", "x"), ErrInvalidInput)
	assert.Equal(t, DefaultTimeout, cfg.Timeout, "failed apply leaves the field unchanged")
}

func TestIsSettingKey(t *testing.T) {
	for _, k := range SettingKeys {
		assert.True(t, IsSettingKey(k.Key), k.Key)
	}
	assert.False(t, IsSettingKey("search.mode"))
}
