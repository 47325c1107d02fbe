package tui

import "errors"

// ErrMissingDashboard is returned when the dashboard is not provided.
var ErrMissingDashboard = errors.New("tui: dashboard is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
