package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for ballotwatch resources.
	uriScheme = "ballotwatch://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "candidates",
		Name:        "candidates",
		Description: "All stored candidates",
		MIMEType:    "application/json",
	}, s.handleCandidatesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "districts/{districtId}/candidates",
		Name:        "district-candidates",
		Description: "Stored candidates for one district",
		MIMEType:    "application/json",
	}, s.handleCandidatesResource)
}

// handleCandidatesResource returns stored candidates, all of them or one
// district's depending on the URI.
func (s *Server) handleCandidatesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	districtID := ""
	if req.Params.URI != uriScheme+"candidates" {
		districtID = extractDistrictID(req.Params.URI)
		if districtID == "" {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
	}

	stored, err := s.ports.Discovery.Candidates(ctx, districtID)
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}

	type candidateInfo struct {
		DistrictID string `json:"district_id"`
		CandidateOutput
	}
	infos := make([]candidateInfo, len(stored))
	for i, c := range stored {
		infos[i] = candidateInfo{DistrictID: c.DistrictID, CandidateOutput: storedOutput(c)}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling candidates: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDistrictID extracts the district ID from a URI like
// ballotwatch://districts/{districtId}/candidates.
func extractDistrictID(uri string) string {
	const prefix = uriScheme + "districts/"
	const suffix = "/candidates"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
