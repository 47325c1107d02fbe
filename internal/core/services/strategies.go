package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/logger"
)

// DiscoverFunc fetches the strategies a service side offers.
type DiscoverFunc func(ctx context.Context) (*domain.StrategyInfo, error)

// StrategyCatalog holds one discovered strategy set. Until discovery
// succeeds it serves domain.FallbackStrategies.
type StrategyCatalog struct {
	name     string
	discover DiscoverFunc

	mu         sync.RWMutex
	strategies domain.StrategySet
	current    domain.Strategy
}

// NewStrategyCatalog creates a catalog seeded with the fallback set.
func NewStrategyCatalog(name string, discover DiscoverFunc) *StrategyCatalog {
	return &StrategyCatalog{
		name:       name,
		discover:   discover,
		strategies: domain.FallbackStrategies.Clone(),
	}
}

// Discover replaces the set with the service's answer. Failures and
// empty answers are logged and the current set is kept.
func (c *StrategyCatalog) Discover(ctx context.Context) {
	if c.discover == nil {
		return
	}
	info, err := c.discover(ctx)
	if err != nil {
		logger.Warn("%s strategy discovery failed, keeping %v: %v", c.name, c.Strategies().Strings(), err)
		return
	}
	if info == nil || len(info.Available) == 0 {
		logger.Warn("%s strategy discovery returned no strategies, keeping current set", c.name)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.strategies = info.Available.Clone()
	c.current = info.Current
	logger.Debug("%s strategies: %v", c.name, c.strategies.Strings())
}

// Strategies returns a copy of the current set.
func (c *StrategyCatalog) Strategies() domain.StrategySet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.strategies.Clone()
}

// Default returns the service's current strategy when it is in the
// set, otherwise the first member.
func (c *StrategyCatalog) Default() domain.Strategy {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current != "" && c.strategies.Contains(c.current) {
		return c.current
	}
	return c.strategies.Default()
}

// Resolve returns s, or the default for an empty s. A strategy outside
// the set is refused.
func (c *StrategyCatalog) Resolve(s domain.Strategy) (domain.Strategy, error) {
	if s == "" {
		return c.Default(), nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.strategies.Contains(s) {
		return "", &domain.ValidationError{
			Field:   "strategy",
			Message: fmt.Sprintf("Unknown strategy %q.", s),
			Cause:   domain.ErrUnknownStrategy,
		}
	}
	return s, nil
}
