package mcp

import (
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Discovery runs discovery and reads stored candidates and runs.
	Discovery driving.DiscoveryService

	// Reporter renders coverage reports.
	Reporter driving.CoverageReporter
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Discovery == nil {
		return ErrMissingDiscoveryService
	}
	if p.Reporter == nil {
		return ErrMissingReporter
	}
	return nil
}
