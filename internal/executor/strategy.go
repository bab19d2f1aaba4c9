package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/aryankumar/parbench/internal/util"
)

// WorkFunc computes the result for one task id.
// It must be safe to call from several goroutines at once.
// A non-nil error marks the task failed without affecting other tasks.
type WorkFunc[T any] func(ctx context.Context, id int) (T, error)

// Workload is a named work function.
// Name and Params are what crosses a process boundary: worker processes
// rebuild Func from a registry keyed by Name, so both must describe Func fully.
type Workload[T any] struct {
	// Name identifies the workload in the worker registry
	Name string

	// Params is the JSON-encoded configuration the workload was built from
	Params json.RawMessage

	// Func runs one task in the current process
	Func WorkFunc[T]
}

// Strategy runs N tasks against a workload under one concurrency model
// and returns a sink with every slot populated.
// The only error returned is invalid input; task failures live in the sink.
type Strategy[T any] interface {
	// Name is the mode name the strategy is selected by
	Name() string

	// Run executes tasks 1..n
	Run(ctx context.Context, n int, w Workload[T]) (*Sink[T], error)
}

// ProgressFunc is called once per finished task with the task id and the
// number of tasks finished so far. Calls may come from several goroutines.
type ProgressFunc func(taskID, completed, total int)

// Option configures optional strategy behaviour
type Option func(*Options)

// Options holds settings shared by all strategies
type Options struct {
	// Progress is invoked after each task completes
	Progress ProgressFunc

	// UnboundedWarnThreshold makes ThreadPerTask log a warning when N exceeds it
	UnboundedWarnThreshold int
}

// WithProgress registers a completion callback
func WithProgress(fn ProgressFunc) Option {
	return func(o *Options) {
		o.Progress = fn
	}
}

// WithUnboundedWarnThreshold overrides the task count above which
// ThreadPerTask warns about unbounded goroutine creation
func WithUnboundedWarnThreshold(n int) Option {
	return func(o *Options) {
		o.UnboundedWarnThreshold = n
	}
}

// NewOptions applies opts over the defaults
func NewOptions(opts ...Option) Options {
	o := Options{UnboundedWarnThreshold: 1000}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Report invokes the progress callback when one is configured
func (o Options) Report(taskID, completed, total int) {
	if o.Progress != nil {
		o.Progress(taskID, completed, total)
	}
}

// ValidateTaskCount rejects non-positive task counts
func ValidateTaskCount(n int) error {
	if n <= 0 {
		return util.NewValidationError("n_tasks", n, "must be a positive integer")
	}
	return nil
}

// ValidateWorkerCount rejects non-positive pool sizes
func ValidateWorkerCount(workers int) error {
	if workers <= 0 {
		return util.NewValidationError("pool_size", workers, "must be a positive integer")
	}
	return nil
}

func validateRun[T any](n int, w Workload[T]) error {
	if err := ValidateTaskCount(n); err != nil {
		return err
	}
	if w.Func == nil {
		return fmt.Errorf("workload %q must have a work function", w.Name)
	}
	return nil
}

// ExecuteTask runs fn for one id and captures its outcome as a Result.
// A panic inside fn becomes that task's error.
func ExecuteTask[T any](ctx context.Context, fn WorkFunc[T], id int, logger *slog.Logger) (result Result[T]) {
	startTime := time.Now()
	result.TaskID = id

	select {
	case <-ctx.Done():
		result.Error = fmt.Errorf("%w: %w", util.ErrNotExecuted, ctx.Err())
		result.Duration = time.Since(startTime)
		return result
	default:
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("task panicked", "task", id, "panic", r, "stack", string(debug.Stack()))
			var zero T
			result.Value = zero
			result.Error = fmt.Errorf("task panicked: %v", r)
		}
		result.Duration = time.Since(startTime)

		if result.Error != nil {
			logger.Warn("task failed",
				"task", id,
				"error", result.Error,
				"duration", result.Duration)
		} else {
			logger.Debug("task succeeded",
				"task", id,
				"duration", result.Duration)
		}
	}()

	result.Value, result.Error = fn(ctx, id)
	return result
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
