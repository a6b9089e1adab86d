package common

import "errors"

// Sentinel errors for the failure modes the core surfaces to callers.
// Wrap them with fmt.Errorf("...: %w", ...) and test with errors.Is.
var (
	// ErrNotFound is returned by lookups, subgraph expansion and path
	// queries when a referenced concept id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for empty or malformed document text
	// and for self-referential relationship requests.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamUnavailable is returned when the storage capability is
	// unreachable. LLM failures are never surfaced with this error; the
	// inferencer recovers them locally.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrMergeConflict is returned when a relationship references an
	// endpoint that cannot be resolved during an upsert batch.
	ErrMergeConflict = errors.New("merge conflict")
)
