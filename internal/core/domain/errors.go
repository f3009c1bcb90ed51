package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown source adapter type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Discovery Errors.

	// ErrNoSources indicates no source adapters are configured.
	// This is the only configuration error fatal to a run.
	ErrNoSources = errors.New("no sources configured")

	// ErrDiscoveryDisabled indicates discovery is switched off in settings.
	ErrDiscoveryDisabled = errors.New("discovery disabled")

	// ErrRunInProgress indicates another discovery run holds the run lock.
	ErrRunInProgress = errors.New("discovery run in progress")

	// ErrSourceFailed indicates a source produced nothing usable.
	ErrSourceFailed = errors.New("source failed")
)
