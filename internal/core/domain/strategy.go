package domain

import "strings"

// Strategy identifies an indexing/retrieval mode on the service.
// Tags are opaque: the valid set is discovered, not hardcoded.
type Strategy string

// Strategy tags the service is known to offer.
const (
	// StrategyVectorStore chunks documents and embeds each chunk.
	StrategyVectorStore Strategy = "vector_store"

	// StrategySentenceWindow indexes sentences with surrounding context windows.
	StrategySentenceWindow Strategy = "sentence_window"
)

// FallbackStrategies is used until discovery succeeds.
var FallbackStrategies = StrategySet{StrategyVectorStore, StrategySentenceWindow}

// String returns the string representation.
func (s Strategy) String() string {
	return string(s)
}

// DisplayName returns a human-readable label for the strategy.
func (s Strategy) DisplayName() string {
	switch s {
	case StrategyVectorStore:
		return "Vector Store"
	case StrategySentenceWindow:
		return "Sentence Window"
	}

	words := strings.FieldsFunc(string(s), func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	if len(words) == 0 {
		return unknownDescription
	}
	return strings.Join(words, " ")
}

// Description returns a short explanation of the strategy.
func (s Strategy) Description() string {
	switch s {
	case StrategyVectorStore:
		return "Standard chunking with vector embedding"
	case StrategySentenceWindow:
		return "Sentence-based chunking with context windows"
	default:
		return ""
	}
}

// StrategySet is an ordered set of strategy tags without duplicates.
type StrategySet []Strategy

// NewStrategySet builds a set from raw tags, dropping blanks and duplicates.
func NewStrategySet(tags []string) StrategySet {
	set := make(StrategySet, 0, len(tags))
	seen := make(map[Strategy]bool, len(tags))
	for _, tag := range tags {
		s := Strategy(strings.TrimSpace(tag))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		set = append(set, s)
	}
	return set
}

// Contains returns true if s is a member of the set.
func (ss StrategySet) Contains(s Strategy) bool {
	for _, m := range ss {
		if m == s {
			return true
		}
	}
	return false
}

// Default returns the first strategy, or vector_store for an empty set.
func (ss StrategySet) Default() Strategy {
	if len(ss) == 0 {
		return StrategyVectorStore
	}
	return ss[0]
}

// Strings returns the raw tags.
func (ss StrategySet) Strings() []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}

// Clone returns a copy that can be modified independently.
func (ss StrategySet) Clone() StrategySet {
	if ss == nil {
		return nil
	}
	out := make(StrategySet, len(ss))
	copy(out, ss)
	return out
}

// StrategyInfo is the result of a strategy discovery call.
type StrategyInfo struct {
	// Available is the discovered set.
	Available StrategySet

	// Current is the strategy the service is serving, when it reports one.
	Current Strategy
}

const unknownDescription = "Unknown"
