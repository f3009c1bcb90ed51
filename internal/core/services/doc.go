// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The discovery pipeline runs in this order: the Aggregator fans out to every
// source adapter, the Deduplicator clusters and merges sightings, the
// CoverageReporter summarises the result and CandidateSync persists it.
package services
