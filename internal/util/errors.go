package util

import (
	"errors"
	"fmt"
)

// Common error types for parbench
var (
	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotFound marks a task whose resource could not be obtained.
	// Rendered as the NOT FOUND sentinel in result listings.
	ErrNotFound = errors.New("not found")

	// ErrTimeout indicates an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCancelled indicates an operation was cancelled
	ErrCancelled = errors.New("operation cancelled")

	// ErrWorkerCrashed indicates a worker process exited while a task was in flight
	ErrWorkerCrashed = errors.New("worker process crashed")

	// ErrProtocol indicates a malformed message crossed the process boundary
	ErrProtocol = errors.New("protocol error")

	// ErrUnknownWorkload indicates a workload name with no registered factory
	ErrUnknownWorkload = errors.New("unknown workload")

	// ErrSlotWritten indicates a second write to an already populated result slot
	ErrSlotWritten = errors.New("result slot already written")

	// ErrSlotOutOfRange indicates a task id outside the sink's range
	ErrSlotOutOfRange = errors.New("task id out of range")

	// ErrNotExecuted marks a task that never started because the run ended first
	ErrNotExecuted = errors.New("task not executed")
)

// NotFoundSentinel is the text printed in place of a failed task's value.
const NotFoundSentinel = "NOT FOUND"

// ValidationError represents a validation failure of a single setting
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if v.Value != nil {
		return fmt.Sprintf("validation failed for field %q (value: %v): %s", v.Field, v.Value, v.Message)
	}
	return fmt.Sprintf("validation failed for field %q: %s", v.Field, v.Message)
}

// Unwrap ties every validation failure to ErrInvalidConfig
func (v *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCancelled checks if an error is a cancellation error
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsNotFound checks if an error is the not-found sentinel
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNotExecuted checks if a task was skipped rather than run
func IsNotExecuted(err error) bool {
	return errors.Is(err, ErrNotExecuted)
}

// IsWorkerFailure checks if an error came from the process boundary
// rather than from the work function itself
func IsWorkerFailure(err error) bool {
	return errors.Is(err, ErrWorkerCrashed) || errors.Is(err, ErrProtocol)
}

// FriendlyError converts technical errors to user-friendly messages
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return fmt.Sprintf("Invalid configuration: --%s %s (got %v).", verr.Field, verr.Message, verr.Value)
	case IsTimeout(err):
		return "Operation timed out. Increase the deadline with the --timeout flag."
	case IsCancelled(err):
		return "Operation was cancelled. Results for tasks that never started are marked as failed."
	case errors.Is(err, ErrInvalidConfig):
		return "Invalid configuration. Please check your config file and command-line flags."
	case errors.Is(err, ErrUnknownWorkload):
		return "Unknown workload. The worker binary does not match the driver binary."
	default:
		return err.Error()
	}
}
