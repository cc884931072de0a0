package services

import "fmt"

// ValidationError maps to a 400 at the transport layer.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// CapacityError maps to a 429. Raised only by admission control.
type CapacityError struct {
	Message string
}

func (e *CapacityError) Error() string { return e.Message }

// NotFoundError maps to a 404.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NewNotFoundError(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// UnavailableError maps to a 503, raised when the worker backlog is full.
type UnavailableError struct {
	Message string
}

func (e *UnavailableError) Error() string { return e.Message }

// ConflictError maps to a 409, for state-machine violations such as
// requesting a preview on a task that has not succeeded.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }
