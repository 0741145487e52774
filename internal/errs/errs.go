// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates failed authentication (missing/invalid credentials or token).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the actor exists but lacks permission for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation indicates malformed, missing, or out-of-range input.
	ErrValidation = errors.New("validation failed")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email or category title taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrSelfDelete indicates an admin attempting to delete their own account.
	ErrSelfDelete = errors.New("cannot delete yourself")

	// ErrInUse indicates the entity is referenced by other records and cannot be deleted.
	ErrInUse = errors.New("in use")
)
