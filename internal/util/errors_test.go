package util

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("n_tasks", 0, "must be a positive integer")

	expected := `validation failed for field "n_tasks" (value: 0): must be a positive integer`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, ErrInvalidConfig) {
		t.Error("expected validation error to match ErrInvalidConfig")
	}

	noValue := NewValidationError("mode", nil, "is required")
	if strings.Contains(noValue.Error(), "value:") {
		t.Errorf("expected no value in message, got %q", noValue.Error())
	}
}

func TestErrorCheckers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		checker func(error) bool
		want    bool
	}{
		{"timeout", fmt.Errorf("wrapped: %w", ErrTimeout), IsTimeout, true},
		{"not timeout", ErrCancelled, IsTimeout, false},
		{"cancelled", fmt.Errorf("wrapped: %w", ErrCancelled), IsCancelled, true},
		{"not found", fmt.Errorf("article 2: %w", ErrNotFound), IsNotFound, true},
		{"not found plain error", errors.New("boom"), IsNotFound, false},
		{"worker crashed", fmt.Errorf("task 4: %w", ErrWorkerCrashed), IsWorkerFailure, true},
		{"not executed", fmt.Errorf("%w: %w", ErrNotExecuted, ErrCancelled), IsNotExecuted, true},
		{"executed failure", ErrNotFound, IsNotExecuted, false},
		{"protocol", fmt.Errorf("decode: %w", ErrProtocol), IsWorkerFailure, true},
		{"task failure is not worker failure", ErrNotFound, IsWorkerFailure, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.checker(tt.err); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"nil", nil, ""},
		{"validation", NewValidationError("pool_size", 0, "must be a positive integer"), "--pool_size must be a positive integer (got 0)"},
		{"timeout", ErrTimeout, "--timeout"},
		{"cancelled", ErrCancelled, "cancelled"},
		{"invalid config", fmt.Errorf("load: %w", ErrInvalidConfig), "Invalid configuration"},
		{"unknown workload", ErrUnknownWorkload, "worker binary"},
		{"other", errors.New("something odd"), "something odd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := FriendlyError(tt.err)
			if tt.contains == "" {
				if msg != "" {
					t.Errorf("expected empty message, got %q", msg)
				}
				return
			}
			if !strings.Contains(msg, tt.contains) {
				t.Errorf("expected %q to contain %q", msg, tt.contains)
			}
		})
	}
}
