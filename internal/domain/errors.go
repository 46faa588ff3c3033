package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument signals a malformed record, schema, or store selection.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrForbidden signals a role that is too low for the requested action.
	ErrForbidden = errors.New("forbidden")

	// ErrAuthRejected is the common parent of every failed login outcome.
	// Callers that talk to end users must branch on this error only.
	ErrAuthRejected = errors.New("authentication rejected")
	// ErrUserNotFound signals a login attempt for an unknown email.
	ErrUserNotFound = fmt.Errorf("%w: user not found", ErrAuthRejected)
	// ErrInvalidCredentials signals a password that does not match the stored digest.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrAuthRejected)
)

// InvalidArgumentError wraps ErrInvalidArgument with the offending argument name.
type InvalidArgumentError struct {
	Name   string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidArgument.Error(), e.Name, e.Reason)
}

func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }

// NewInvalidArgument creates an invalid argument error.
func NewInvalidArgument(name, reason string) error {
	return &InvalidArgumentError{Name: name, Reason: reason}
}
