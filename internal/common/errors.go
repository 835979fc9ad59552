// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Registry errors.
	ErrNotFound         = errors.New("service not found")
	ErrDuplicateService = errors.New("service already registered")
	ErrEmptyID          = errors.New("service id cannot be empty")

	// Ingestion errors.
	ErrDuplicateSubmission = errors.New("service already answered in this cycle")
	ErrInvalidResponse     = errors.New("invalid response")

	// Workflow errors.
	ErrInvalidState = errors.New("invalid state for transition")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRecoverable reports whether err belongs to the caller-recoverable taxonomy.
// Every core error is recoverable; anything else is unexpected.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDuplicateService) ||
		errors.Is(err, ErrDuplicateSubmission) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrInvalidResponse) ||
		errors.Is(err, ErrEmptyID)
}
