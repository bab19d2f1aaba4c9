// Package harness drives one benchmark run: it picks the strategy, times
// the run, and turns the filled sink into ordered results and a report.
package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aryankumar/parbench/internal/executor"
	"github.com/aryankumar/parbench/internal/output"
	"github.com/aryankumar/parbench/internal/util"
	"github.com/google/uuid"
)

// Run describes a benchmark run
type Run[T any] struct {
	Mode     Mode
	Tasks    int
	Workload executor.Workload[T]
	Strategy StrategyConfig

	// Render turns a value into report text; nil uses fmt
	Render func(T) string
}

// Outcome is a finished run
type Outcome[T any] struct {
	Results []executor.Result[T]
	Report  *output.Report
}

// Execute runs the benchmark and returns results in task order.
// When ctx ends early the outcome is still complete (unstarted tasks are
// marked failed) and the returned error wraps util.ErrTimeout or
// util.ErrCancelled.
func Execute[T any](ctx context.Context, run Run[T]) (*Outcome[T], error) {
	runID := uuid.NewString()

	logger := run.Strategy.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("run_id", runID)

	cfg := run.Strategy
	cfg.Logger = logger
	strategy, err := NewStrategy[T](run.Mode, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("starting run",
		"workload", run.Workload.Name,
		"mode", strategy.Name(),
		"tasks", run.Tasks)

	start := time.Now()
	sink, err := strategy.Run(ctx, run.Tasks, run.Workload)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	if !sink.Complete() {
		logger.Warn("strategy left result slots empty", "missing", sink.Missing())
	}

	results := sink.Results()
	for _, r := range executor.FilterFailed(results) {
		logger.Debug("task failed",
			"task", r.TaskID,
			"error", r.Error,
			"not_executed", util.IsNotExecuted(r.Error),
			"worker_failure", util.IsWorkerFailure(r.Error))
	}

	summary := executor.Summarize(results)
	logger.Info("run finished",
		"elapsed", elapsed,
		"success_rate", executor.SuccessRate(results),
		"summary", summary.String())

	outcome := &Outcome[T]{
		Results: results,
		Report: &output.Report{
			RunID:    runID,
			Workload: run.Workload.Name,
			Mode:     strategy.Name(),
			Tasks:    run.Tasks,
			Workers:  run.Mode.Workers(run.Tasks, run.Strategy.PoolSize),
			Elapsed:  elapsed,
			Summary:  summary,
			Results:  output.NewRows(results, run.Render),
		},
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return outcome, fmt.Errorf("run stopped after %s: %w", elapsed.Round(time.Millisecond), util.ErrTimeout)
		}
		return outcome, fmt.Errorf("run stopped after %s: %w", elapsed.Round(time.Millisecond), util.ErrCancelled)
	}

	return outcome, nil
}

// LineFunc renders one result line
type LineFunc[T any] func(r executor.Result[T]) string

// WriteLines prints one line per result in task order
func WriteLines[T any](w io.Writer, results []executor.Result[T], line LineFunc[T]) error {
	for _, r := range results {
		if _, err := fmt.Fprintln(w, line(r)); err != nil {
			return err
		}
	}
	return nil
}
