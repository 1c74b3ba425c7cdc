package task

import (
	"errors"
	"fmt"
)

// Parse errors.
var (
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrTimeOutOfRange    = errors.New("time must be between 00:00 and 23:59")
)

// Validation errors.
var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrInvalidDuration = errors.New("duration must be a positive number of minutes")
	ErrInvalidPriority = errors.New("priority must be 'low', 'medium' or 'high'")
	ErrEmptyID         = errors.New("id cannot be empty")
)

// ErrNotFound is returned by lookups. Commands that reference an unknown id
// never return it: they leave the state unchanged instead.
var ErrNotFound = errors.New("task not found")

// ParseError reports a malformed time string.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing time %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports a field that cannot enter the planner.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
