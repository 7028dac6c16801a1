package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable indicates data could not be obtained from a source.
	// Callers treat it as "no data", never as "empty".
	ErrUnavailable = errors.New("data unavailable")

	// ErrNoCriteria indicates a run was started without any search criteria.
	ErrNoCriteria = errors.New("at least one of location or languages is required")

	// ErrNotAuthenticated indicates no valid credentials are available.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
