package shared

import "errors"

// Error taxonomy shared by all modules. Services return these (wrapped with
// detail); the HTTP layer maps them onto problem responses.
var (
	// ErrValidation indicates malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a duplicate key or a lost optimistic-concurrency race.
	ErrConflict = errors.New("conflict")
	// ErrForbidden indicates a failed permission, ownership, or management check.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized indicates a missing or unrecognized principal.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrIntegrity indicates reconciliation divergence between stored and computed state.
	ErrIntegrity = errors.New("integrity divergence")
)
