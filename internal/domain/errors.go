package domain

import (
	"errors"
	"fmt"
)

// ConflictError reports a uniqueness violation on create, or a stale
// optimistic-concurrency token on update/restore. The caller should re-fetch
// the record and retry.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

// NotFoundError reports an unknown record or version.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ValidationError reports malformed input caught at the service boundary,
// before any storage or the resolver is touched.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// DependencyError reports an unreachable collaborator (store, cache). Store
// failures on reads are retryable; cache failures are recovered locally and
// should never carry this error to a caller.
type DependencyError struct {
	Dependency string
	Err        error
}

func (e *DependencyError) Error() string {
	return e.Dependency + " unavailable: " + e.Err.Error()
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
