package domain

import "errors"

// Sentinel errors for the interaction core. Callers match with
// errors.Is; adapters translate them to transport-level responses.
var (
	// ErrInvalidRequest rejects an operation missing its inputs, e.g. a
	// route request without an origin or a destination.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrProviderFailure wraps a routing or traffic provider error.
	ErrProviderFailure = errors.New("provider failure")

	// ErrTrafficQueryFailed marks a single-sample traffic query failure.
	// It is logged and skipped, never fatal to an analysis run.
	ErrTrafficQueryFailed = errors.New("traffic query failed")

	// ErrGeolocationUnavailable means the user position is unknown,
	// which disables route requests until a position arrives.
	ErrGeolocationUnavailable = errors.New("geolocation unavailable")

	// ErrNotFound is returned for lookups of absent entities.
	ErrNotFound = errors.New("not found")
)
