package domain

import "errors"

// Sentinel errors - use with errors.Is()
var (
	// ErrNotFound indicates the requested entity does not exist. Repositories
	// return this for absent rows; it is never conflated with an empty child
	// list.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness conflict (duplicate email, username).
	ErrConflict = errors.New("already exists")

	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates a missing or invalid session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates a valid session belonging to the wrong owner.
	ErrForbidden = errors.New("forbidden")

	// ErrQuotaExceeded indicates the account tier's workspace limit would be
	// exceeded. The guarded counter increment fails closed with this error
	// before any workspace row is written.
	ErrQuotaExceeded = errors.New("workspace quota exceeded")

	// ErrCyclicHierarchy indicates the folder edge table contains a cycle:
	// a folder was revisited as its own indirect descendant during a tree
	// walk. Integrity violation, not a user error.
	ErrCyclicHierarchy = errors.New("cyclic folder hierarchy")

	// ErrCancelled indicates the caller's context was cancelled or timed out
	// mid-operation. No partial results accompany it.
	ErrCancelled = errors.New("operation cancelled")
)
