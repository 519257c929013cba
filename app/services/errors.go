package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for the cases the request boundary maps straight to a
// status code.
var (
	// ErrUnauthenticated means no resolvable identity was presented (401).
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the identity lacks the required capability, or a
	// seller touched somebody else's product (403).
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means the id or slug does not resolve (404).
	ErrNotFound = errors.New("not found")
)

// ValidationError carries field-level messages for a rejected input (400).
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	for field, msg := range e.Fields {
		return fmt.Sprintf("%s: %s", field, msg)
	}
	return "validation failed"
}

// NewValidationError builds a single-field validation failure.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// UpstreamError wraps a failure of an external collaborator — the image
// store or the database — during a mutation (500).
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *UpstreamError) Unwrap() error { return e.Err }

// QueryFailure wraps a browsing-query execution failure (500). Listing
// never returns partial results alongside it.
type QueryFailure struct {
	Err error
}

func (e *QueryFailure) Error() string { return fmt.Sprintf("catalog query failed: %v", e.Err) }
func (e *QueryFailure) Unwrap() error { return e.Err }
