// Package mcp provides an MCP (Model Context Protocol) server adapter for ballotwatch.
// It lets AI assistants run candidate discovery and read stored candidates.
package mcp

import "errors"

// ErrMissingDiscoveryService is returned when the discovery service is not provided.
var ErrMissingDiscoveryService = errors.New("mcp: discovery service is required")

// ErrMissingReporter is returned when the coverage reporter is not provided.
var ErrMissingReporter = errors.New("mcp: coverage reporter is required")
