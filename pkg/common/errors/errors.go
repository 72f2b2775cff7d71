package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the conveyor library

var (
	// ErrInvalidConfiguration indicates invalid setup detected before or at Start
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidState indicates an operation was attempted in a lifecycle state
	// that does not permit it
	ErrInvalidState = errors.New("invalid state")
)

// IsConfig returns true if the error stems from invalid setup
// (bad worker count, zero stages, missing transform)
func IsConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}

// IsState returns true if the error stems from invalid call sequencing
// (push after results, results before start)
func IsState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// ValidationError describes a configuration value that failed validation.
// It wraps ErrInvalidConfiguration so callers can dispatch with errors.Is.
type ValidationError struct {
	Module string      // component that rejected the value (e.g. "stage")
	Field  string      // configuration field name
	Value  interface{} // offending value
	Reason string      // why the value was rejected
	Hint   string      // optional suggestion for fixing it
}

// NewValidationError creates a ValidationError for the given module and field.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint attaches a suggestion and returns the same error for chaining.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// IsValidationError returns true if err is (or wraps) a ValidationError
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// StateError describes an operation attempted against a component whose
// lifecycle state forbids it. It wraps ErrInvalidState.
type StateError struct {
	Module string // component that rejected the call (e.g. "batch")
	Op     string // operation that was attempted (e.g. "Push")
	State  string // state the component was in
}

// NewStateError creates a StateError for the given module, operation and state.
func NewStateError(module, op, state string) *StateError {
	return &StateError{Module: module, Op: op, State: state}
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: cannot %s while %s", e.Module, e.Op, e.State)
}

func (e *StateError) Unwrap() error {
	return ErrInvalidState
}
