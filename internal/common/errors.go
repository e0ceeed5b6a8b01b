// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	ErrNotFound = errors.New("not found")

	// Feed errors.
	ErrFetchFailed   = errors.New("fetch failed")
	ErrMalformedFeed = errors.New("malformed feed")
	ErrEmptyFeed     = errors.New("feed has no rows")

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

// IsRetryable reports whether a failed fetch is worth repeating. Errors that
// know their own answer through Temporary() decide for themselves; config and
// feed-shape errors never retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var temporary interface{ Temporary() bool }
	if errors.As(err, &temporary) {
		return temporary.Temporary()
	}

	if errors.Is(err, ErrMalformedFeed) || errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrMissingConfig) {
		return false
	}

	return errors.Is(err, ErrFetchFailed)
}
