// Package mcp provides an MCP (Model Context Protocol) server adapter for docqa.
// It lets AI assistants ask questions about the uploaded documents.
package mcp

import "errors"

// ErrMissingDashboard is returned when the dashboard is not provided.
var ErrMissingDashboard = errors.New("mcp: dashboard is required")
