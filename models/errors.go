package models

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateVote means the origin already has a vote on the poll.
	ErrDuplicateVote = errors.New("already voted")
	ErrNotFound      = errors.New("not found")
	ErrInternal      = errors.New("internal error")
)

// ValidationError reports caller-fixable input problems.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
