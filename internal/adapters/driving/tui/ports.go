// Package tui provides an interactive terminal dashboard for docqa.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"time"

	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// DefaultPollInterval is used when Ports.PollInterval is not set.
const DefaultPollInterval = 2 * time.Second

// Ports aggregates the driving ports the TUI talks to.
type Ports struct {
	// Dashboard coordinates documents and questions.
	Dashboard driving.Dashboard

	// Settings manages persisted settings. Optional; the settings
	// view is hidden without it.
	Settings driving.SettingsService

	// PollInterval is how often the list is refreshed while any
	// document is still being indexed.
	PollInterval time.Duration
}

// NewPorts creates a new Ports aggregate.
func NewPorts(dashboard driving.Dashboard, settings driving.SettingsService, pollInterval time.Duration) *Ports {
	return &Ports{
		Dashboard:    dashboard,
		Settings:     settings,
		PollInterval: pollInterval,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Dashboard == nil {
		return ErrMissingDashboard
	}
	return nil
}

func (p *Ports) pollInterval() time.Duration {
	if p.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return p.PollInterval
}
