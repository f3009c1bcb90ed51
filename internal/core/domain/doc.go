// Package domain defines the core business entities for ballotwatch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DiscoveredCandidate: One sighting of a candidate from one source
//   - MergedCandidate: The reconciled record of one person in one district
//   - ConflictRecord: A disagreement between sources kept for review
//   - AggregationResult: The output of one discovery run
//   - CoverageReport: A run summarised against the district space
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
