package executor

import (
	"context"
	"log/slog"
	"time"
)

// Sequential runs tasks one after another in increasing id order.
// It is the correctness and timing baseline for the other strategies.
type Sequential[T any] struct {
	logger *slog.Logger
	opts   Options
}

// NewSequential creates a sequential strategy
func NewSequential[T any](logger *slog.Logger, opts ...Option) *Sequential[T] {
	return &Sequential[T]{
		logger: loggerOrDefault(logger),
		opts:   NewOptions(opts...),
	}
}

// Name implements Strategy
func (s *Sequential[T]) Name() string {
	return "single"
}

// Run implements Strategy
func (s *Sequential[T]) Run(ctx context.Context, n int, w Workload[T]) (*Sink[T], error) {
	if err := validateRun(n, w); err != nil {
		return nil, err
	}

	s.logger.Info("starting sequential run", "workload", w.Name, "tasks", n)
	startTime := time.Now()

	sink := NewSink[T](n)
	for id := 1; id <= n; id++ {
		if ctx.Err() != nil {
			s.logger.Warn("context cancelled, stopping sequential run", "next_task", id)
			break
		}

		if err := sink.Write(ExecuteTask(ctx, w.Func, id, s.logger)); err != nil {
			return nil, err
		}
		s.opts.Report(id, id, n)
	}

	if filled := sink.FillMissing(ctx.Err()); filled > 0 {
		s.logger.Warn("tasks not executed", "count", filled)
	}

	s.logger.Info("sequential run completed", "tasks", n, "duration", time.Since(startTime))
	return sink, nil
}
