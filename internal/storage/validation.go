// Package storage writes normalized timetable rows to SQLite export files.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrEmptySlice   = errors.New("slice cannot be empty")
	ErrInvalidField = errors.New("invalid field")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateColumns ensures every exported field can be stored as a column name.
func validateColumns(fields []string) error {
	if len(fields) == 0 {
		return fmt.Errorf("%w: columns", ErrEmptySlice)
	}
	for i, f := range fields {
		if f == "" {
			return fmt.Errorf("%w: column %d has no name", ErrInvalidField, i)
		}
	}
	return nil
}
