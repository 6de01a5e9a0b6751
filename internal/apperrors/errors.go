package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates that the caller could not be identified.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates that the caller is not allowed to act on the resource,
// e.g. a vote cast by someone who is not part of the expense.
var ErrForbidden = errors.New("forbidden")

// ErrStateConflict indicates that the resource is not in a state that allows the operation.
// Nothing is mutated when it is returned, so callers can re-check and retry safely.
var ErrStateConflict = errors.New("state conflict")

// ErrPreconditionBlocked indicates that a gated transition was refused.
// It is an expected outcome rather than a failure; see domain.ClosureBlockedError.
var ErrPreconditionBlocked = errors.New("precondition blocked")

// ErrInternal indicates an unexpected infrastructure failure.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError. A nil cause is wrapped as ErrInternal.
func NewAppError(code int, message string, err error) *AppError {
	if err == nil {
		err = ErrInternal
	}
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
