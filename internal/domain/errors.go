package domain

import "fmt"

// Error types for consistent error handling across the portal.

// ErrNotFound indicates a record was not found. Lookups treat absence
// as a normal outcome; handlers map this to 404.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrUnauthorized indicates invalid credentials or token.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrConflict indicates a record already exists (e.g. duplicate phone).
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

// ErrStorage indicates a storage medium fault. The adapter recovers by
// falling back to the other medium; callers only ever see this wrapped
// in logs or from an explicit Save/Flush.
type ErrStorage struct {
	Op  string
	Err error
}

func (e *ErrStorage) Error() string {
	return fmt.Sprintf("storage error [%s]: %v", e.Op, e.Err)
}

func (e *ErrStorage) Unwrap() error {
	return e.Err
}
