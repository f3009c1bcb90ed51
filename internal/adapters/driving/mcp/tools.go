package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driving"
)

// DiscoverInput is the input schema for the discover_candidates tool.
type DiscoverInput struct {
	Sync  bool `json:"sync,omitempty" jsonschema:"write merged candidates to the candidate store"`
	Force bool `json:"force,omitempty" jsonschema:"run even if discovery is disabled in settings"`
}

// DiscoverOutput is the output schema for the discover_candidates tool.
type DiscoverOutput struct {
	RunID              string            `json:"run_id"`
	Status             string            `json:"status"`
	Summary            string            `json:"summary"`
	CoveragePercentage float64           `json:"coverage_percentage"`
	TotalCandidates    int               `json:"total_candidates"`
	TotalRaw           int               `json:"total_raw"`
	Conflicts          int               `json:"conflicts"`
	Created            int               `json:"created,omitempty"`
	Updated            int               `json:"updated,omitempty"`
	SourceErrors       map[string]string `json:"source_errors,omitempty"`
}

// CoverageInput is the input schema for the coverage_report tool.
type CoverageInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"number of recent runs to return (default 5)"`
}

// CoverageOutput is the output schema for the coverage_report tool.
type CoverageOutput struct {
	Runs []RunOutput `json:"runs"`
}

// RunOutput is one recorded discovery run.
type RunOutput struct {
	ID                 string            `json:"id"`
	StartedAt          string            `json:"started_at"`
	Status             string            `json:"status"`
	Trigger            string            `json:"trigger"`
	CoveragePercentage float64           `json:"coverage_percentage"`
	TotalCandidates    int               `json:"total_candidates"`
	Conflicts          int               `json:"conflicts"`
	SourceErrors       map[string]string `json:"source_errors,omitempty"`
	Error              string            `json:"error,omitempty"`
}

// DistrictInput is the input schema for the district_candidates tool.
type DistrictInput struct {
	DistrictID string `json:"district_id" jsonschema:"canonical district id, e.g. SC-House-042"`
	Live       bool   `json:"live,omitempty" jsonschema:"query the sources now instead of reading the store"`
}

// DistrictOutput is the output schema for the district_candidates tool.
type DistrictOutput struct {
	DistrictID   string            `json:"district_id"`
	Candidates   []CandidateOutput `json:"candidates"`
	SourceErrors map[string]string `json:"source_errors,omitempty"`
}

// CandidateOutput is one candidate in a district.
type CandidateOutput struct {
	Name         string   `json:"name"`
	Party        string   `json:"party"`
	Confidence   string   `json:"confidence,omitempty"`
	FilingStatus string   `json:"filing_status"`
	Incumbent    bool     `json:"incumbent"`
	Locked       bool     `json:"locked,omitempty"`
	Sources      []string `json:"sources"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "discover_candidates",
		Description: "Run candidate discovery across all enabled sources and summarise coverage",
	}, s.handleDiscover)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "coverage_report",
		Description: "Show coverage and failures of recent discovery runs",
	}, s.handleCoverage)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "district_candidates",
		Description: "List candidates for one legislative district",
	}, s.handleDistrict)
}

// handleDiscover handles the discover_candidates tool invocation.
func (s *Server) handleDiscover(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DiscoverInput,
) (*mcp.CallToolResult, DiscoverOutput, error) {
	outcome, err := s.ports.Discovery.Run(ctx, driving.RunOptions{
		Sync:    input.Sync,
		Force:   input.Force,
		Trigger: "mcp",
	})
	if errors.Is(err, domain.ErrDiscoveryDisabled) {
		return nil, DiscoverOutput{}, errors.New("discovery is disabled; pass force to run anyway")
	}
	if err != nil {
		return nil, DiscoverOutput{}, err
	}

	report := outcome.Report
	output := DiscoverOutput{
		RunID:              outcome.Run.ID,
		Status:             string(outcome.Run.Status),
		Summary:            s.ports.Reporter.Summary(report),
		CoveragePercentage: report.CoveragePercentage(),
		TotalCandidates:    report.TotalCandidates,
		TotalRaw:           report.TotalRaw,
		Conflicts:          report.ConflictCount,
		SourceErrors:       report.SourceErrors,
	}
	if outcome.Sync != nil {
		output.Created = outcome.Sync.Created
		output.Updated = outcome.Sync.Updated
	}

	result := &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: s.ports.Reporter.RenderMarkdown(report)}},
	}
	return result, output, nil
}

// handleCoverage handles the coverage_report tool invocation.
func (s *Server) handleCoverage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CoverageInput,
) (*mcp.CallToolResult, CoverageOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 5
	}

	runs, err := s.ports.Discovery.Runs(ctx, limit)
	if err != nil {
		return nil, CoverageOutput{}, fmt.Errorf("listing runs: %w", err)
	}

	output := CoverageOutput{Runs: make([]RunOutput, len(runs))}
	for i := range runs {
		r := &runs[i]
		output.Runs[i] = RunOutput{
			ID:                 r.ID,
			StartedAt:          r.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
			Status:             string(r.Status),
			Trigger:            r.Trigger,
			CoveragePercentage: r.Coverage,
			TotalCandidates:    r.TotalDeduplicated,
			Conflicts:          r.ConflictCount,
			SourceErrors:       r.SourceErrors,
			Error:              r.Error,
		}
	}
	return nil, output, nil
}

// handleDistrict handles the district_candidates tool invocation.
func (s *Server) handleDistrict(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DistrictInput,
) (*mcp.CallToolResult, DistrictOutput, error) {
	d, err := domain.ParseDistrictID(input.DistrictID)
	if err != nil {
		return nil, DistrictOutput{}, err
	}
	districtID := d.ID()

	output := DistrictOutput{DistrictID: districtID, Candidates: []CandidateOutput{}}

	if input.Live {
		result, err := s.ports.Discovery.ProbeDistrict(ctx, districtID)
		if err != nil {
			return nil, DistrictOutput{}, err
		}
		for i := range result.Candidates {
			output.Candidates = append(output.Candidates, mergedOutput(&result.Candidates[i]))
		}
		if errs := result.SourceErrors(); len(errs) > 0 {
			output.SourceErrors = errs
		}
		return nil, output, nil
	}

	stored, err := s.ports.Discovery.Candidates(ctx, districtID)
	if err != nil {
		return nil, DistrictOutput{}, fmt.Errorf("listing candidates: %w", err)
	}
	for _, c := range stored {
		output.Candidates = append(output.Candidates, storedOutput(c))
	}
	return nil, output, nil
}

func mergedOutput(c *domain.MergedCandidate) CandidateOutput {
	return CandidateOutput{
		Name:         c.Name,
		Party:        c.Party.Label(),
		Confidence:   c.PartyConfidence.String(),
		FilingStatus: c.FilingStatus.Label(),
		Incumbent:    c.Incumbent,
		Sources:      c.Sources,
	}
}

func storedOutput(c *domain.StoredCandidate) CandidateOutput {
	return CandidateOutput{
		Name:         c.Name,
		Party:        c.Party.Label(),
		Confidence:   c.PartyConfidence.String(),
		FilingStatus: c.FilingStatus.Label(),
		Incumbent:    c.Incumbent,
		Locked:       c.Locked,
		Sources:      c.Sources,
	}
}
