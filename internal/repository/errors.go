package repository

import "errors"

// Terminal error taxonomy. Low-level transient failures are absorbed by the
// component that owns the retry budget; only these propagate to callers.
var (
	// ErrInvalidInput indicates a malformed acquisition URL. Fatal, no retry.
	ErrInvalidInput = errors.New("invalid input URL")

	// ErrHomepageUnreachable indicates the anchor page could not be fetched,
	// which is fatal to the whole acquisition.
	ErrHomepageUnreachable = errors.New("homepage unreachable")

	// ErrRecordNotFound indicates a cache miss for the requested knowledge record.
	ErrRecordNotFound = errors.New("knowledge record not found")

	// ErrCacheWrite indicates the knowledge record could not be persisted.
	// The acquisition must be reported as failed, never as silently unsaved.
	ErrCacheWrite = errors.New("knowledge cache write failed")

	// ErrReasonerMalformed indicates the reasoning collaborator returned a
	// response that does not match the expected verdict shape.
	ErrReasonerMalformed = errors.New("malformed reasoning response")
)
