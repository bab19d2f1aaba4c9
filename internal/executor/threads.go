package executor

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ThreadPerTask starts one goroutine per task with no upper bound.
//
// Concurrency grows with N, so very large task counts can exhaust memory or
// file descriptors (for I/O workloads). Use ThreadPool when N is large.
type ThreadPerTask[T any] struct {
	logger *slog.Logger
	opts   Options
}

// NewThreadPerTask creates a goroutine-per-task strategy
func NewThreadPerTask[T any](logger *slog.Logger, opts ...Option) *ThreadPerTask[T] {
	return &ThreadPerTask[T]{
		logger: loggerOrDefault(logger),
		opts:   NewOptions(opts...),
	}
}

// Name implements Strategy
func (s *ThreadPerTask[T]) Name() string {
	return "threads"
}

// Run implements Strategy. It returns only after every goroutine has finished.
func (s *ThreadPerTask[T]) Run(ctx context.Context, n int, w Workload[T]) (*Sink[T], error) {
	if err := validateRun(n, w); err != nil {
		return nil, err
	}

	if s.opts.UnboundedWarnThreshold > 0 && n > s.opts.UnboundedWarnThreshold {
		s.logger.Warn("starting one goroutine per task without a bound",
			"tasks", n,
			"threshold", s.opts.UnboundedWarnThreshold)
	}

	s.logger.Info("starting thread-per-task run", "workload", w.Name, "tasks", n)
	startTime := time.Now()

	sink := NewSink[T](n)
	var (
		wg        sync.WaitGroup
		completed atomic.Int32
		errMu     sync.Mutex
		writeErr  error
	)

	for id := 1; id <= n; id++ {
		wg.Add(1)
		go func(taskID int) {
			defer wg.Done()

			result := ExecuteTask(ctx, w.Func, taskID, s.logger)
			if err := sink.Write(result); err != nil {
				errMu.Lock()
				if writeErr == nil {
					writeErr = err
				}
				errMu.Unlock()
				return
			}

			s.opts.Report(taskID, int(completed.Add(1)), n)
		}(id)
	}

	wg.Wait()

	if writeErr != nil {
		return nil, writeErr
	}

	s.logger.Info("thread-per-task run completed",
		"tasks", n,
		"successful", CountSuccessful(sink.Results()),
		"duration", time.Since(startTime))

	return sink, nil
}
