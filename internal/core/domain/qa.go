package domain

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultTopK is the number of sources retrieved when none is requested.
const DefaultTopK = 5

// QueryRequest describes one question submission.
type QueryRequest struct {
	Question          string
	Strategy          Strategy
	TopK              int
	EvaluationEnabled bool
}

// Source is one retrieved passage backing an answer.
type Source struct {
	Filename   string
	DocumentID string

	// Score is the relevance score in [0,1].
	Score float64

	// Snippet is the retrieved text, possibly truncated by the service.
	Snippet string
}

// ScorePercent formats the score as a percentage with one decimal.
func (s Source) ScorePercent() string {
	return FormatPercent(s.Score)
}

// QueryExchange is one question/answer round.
type QueryExchange struct {
	Question          string
	Strategy          Strategy
	EvaluationEnabled bool

	// Answer is free text; newlines separate paragraphs.
	Answer string

	// Sources are in the service's relevance order and must not be re-sorted.
	Sources []Source

	// Metrics is nil unless evaluation was requested and the service computed them.
	Metrics Metrics
}

// Paragraphs splits the answer on newlines.
func (q *QueryExchange) Paragraphs() []string {
	if q == nil || q.Answer == "" {
		return nil
	}
	return strings.Split(q.Answer, "\n")
}

// ShowMetrics reports whether a metrics block should be rendered.
func (q *QueryExchange) ShowMetrics() bool {
	return q != nil && q.EvaluationEnabled && len(q.Metrics) > 0
}

// MetricKind tags the shape of a metric result.
type MetricKind string

const (
	// MetricNumeric carries a score in Value.
	MetricNumeric MetricKind = "numeric"

	// MetricTextual carries a score in Text.
	MetricTextual MetricKind = "textual"
)

// Metric is one evaluation result.
type Metric struct {
	Name string
	Kind MetricKind

	// Value is set for numeric metrics.
	Value float64

	// Text is set for textual metrics.
	Text string

	// Reason is the evaluator's optional explanation.
	Reason string
}

// NumericMetric builds a numeric metric.
func NumericMetric(name string, value float64) Metric {
	return Metric{Name: name, Kind: MetricNumeric, Value: value}
}

// TextualMetric builds a textual metric.
func TextualMetric(name, text string) Metric {
	return Metric{Name: name, Kind: MetricTextual, Text: text}
}

// Display renders the metric score: numeric scores as percentages
// with one decimal, textual scores verbatim.
func (m Metric) Display() string {
	if m.Kind == MetricNumeric {
		return FormatPercent(m.Value)
	}
	return m.Text
}

// Metrics maps a metric name to its result.
type Metrics map[string]Metric

// Sorted returns the metrics ordered by name.
func (ms Metrics) Sorted() []Metric {
	out := make([]Metric, 0, len(ms))
	for name, m := range ms {
		if m.Name == "" {
			m.Name = name
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// FormatPercent renders a [0,1] score as "82.0%".
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// CompareResult holds one exchange per strategy for the same question.
type CompareResult struct {
	Question string

	// Strategies is the order the caller asked for.
	Strategies StrategySet

	// Results holds the exchange for each strategy the service answered.
	Results map[Strategy]*QueryExchange
}

// Skipped returns the requested strategies the service did not answer.
func (c *CompareResult) Skipped() StrategySet {
	if c == nil {
		return nil
	}
	var skipped StrategySet
	for _, s := range c.Strategies {
		if _, ok := c.Results[s]; !ok {
			skipped = append(skipped, s)
		}
	}
	return skipped
}
