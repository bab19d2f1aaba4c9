package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aryankumar/parbench/internal/util"
)

// Task represents a unit of work to be executed by the worker pool
type Task[T any] struct {
	// ID is the task id; results are keyed by it
	ID int

	// Execute is the function to run for this task
	Execute WorkFunc[T]
}

// Pool manages a pool of workers that execute tasks concurrently
// It provides bounded concurrency, graceful shutdown, and progress reporting
type Pool[T any] struct {
	// workers is the number of concurrent workers
	workers int

	// tasks is the queue of tasks to execute
	tasks []Task[T]

	// mu protects the tasks slice
	mu sync.Mutex

	// logger for structured logging
	logger *slog.Logger

	// shutdown indicates if the pool is shutting down
	shutdown atomic.Bool

	// running indicates if the pool is currently executing
	running atomic.Bool
}

// NewPool creates a new worker pool with the specified number of workers
// workers must be > 0, otherwise it defaults to 1
func NewPool[T any](workers int, logger *slog.Logger) *Pool[T] {
	if workers <= 0 {
		workers = 1
	}

	return &Pool[T]{
		workers: workers,
		tasks:   make([]Task[T], 0),
		logger:  loggerOrDefault(logger),
	}
}

// Submit adds a task to the pool's queue
// Returns an error if the pool is shutting down or already running
func (p *Pool[T]) Submit(task Task[T]) error {
	if p.shutdown.Load() {
		return fmt.Errorf("pool is shutting down, cannot submit new tasks")
	}

	if p.running.Load() {
		return fmt.Errorf("pool is running, cannot submit new tasks")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if task.ID <= 0 {
		return fmt.Errorf("task must have a positive id, got %d", task.ID)
	}

	if task.Execute == nil {
		return fmt.Errorf("task must have an execute function")
	}

	p.tasks = append(p.tasks, task)
	p.logger.Debug("task submitted", "task", task.ID, "total_tasks", len(p.tasks))

	return nil
}

// Execute runs all submitted tasks using the worker pool pattern
// Returns a slice of results in submission order, one per task
func (p *Pool[T]) Execute(ctx context.Context) []Result[T] {
	return p.ExecuteWithProgress(ctx, nil)
}

// ExecuteWithProgress runs all tasks with progress reporting
// The progressFn callback is called after each task completes
func (p *Pool[T]) ExecuteWithProgress(ctx context.Context, progressFn ProgressFunc) []Result[T] {
	if !p.running.CompareAndSwap(false, true) {
		p.logger.Error("pool is already running")
		return []Result[T]{}
	}
	defer p.running.Store(false)

	p.mu.Lock()
	taskCount := len(p.tasks)
	if taskCount == 0 {
		p.mu.Unlock()
		p.logger.Debug("no tasks to execute")
		return []Result[T]{}
	}

	// Copy so the lock is not held during execution
	tasksCopy := make([]Task[T], len(p.tasks))
	copy(tasksCopy, p.tasks)
	p.mu.Unlock()

	p.logger.Info("starting task execution",
		"workers", p.workers,
		"tasks", taskCount)

	startTime := time.Now()

	// Buffer size = task count to avoid blocking
	taskChan := make(chan taskWithIndex[T], taskCount)
	resultChan := make(chan resultWithIndex[T], taskCount)

	var completed atomic.Int32

	var wg sync.WaitGroup
	workerCount := p.workers
	if workerCount > taskCount {
		// Don't create more workers than tasks
		workerCount = taskCount
	}

	p.logger.Debug("starting workers", "count", workerCount)

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go p.worker(ctx, i, taskChan, resultChan, &wg, &completed, taskCount, progressFn)
	}

	for i, task := range tasksCopy {
		select {
		case taskChan <- taskWithIndex[T]{task: task, index: i}:
		case <-ctx.Done():
			p.logger.Warn("context cancelled while queuing tasks")
			close(taskChan)
			goto waitForWorkers
		}
	}
	close(taskChan)

waitForWorkers:
	wg.Wait()
	close(resultChan)

	results := make([]Result[T], taskCount)
	received := make([]bool, taskCount)

	for res := range resultChan {
		if res.index >= 0 && res.index < taskCount {
			results[res.index] = res.result
			received[res.index] = true
		}
	}

	// Tasks that never ran (context cancelled before execution) get error results
	for i := range results {
		if !received[i] {
			results[i] = Result[T]{
				TaskID: tasksCopy[i].ID,
				Error:  fmt.Errorf("%w: %w", util.ErrNotExecuted, ctx.Err()),
			}
		}
	}

	totalDuration := time.Since(startTime)
	successCount := CountSuccessful(results)

	p.logger.Info("task execution completed",
		"total", taskCount,
		"successful", successCount,
		"failed", taskCount-successCount,
		"duration", totalDuration)

	return results
}

// worker is the worker goroutine that processes tasks from the task channel
func (p *Pool[T]) worker(
	ctx context.Context,
	workerID int,
	taskChan <-chan taskWithIndex[T],
	resultChan chan<- resultWithIndex[T],
	wg *sync.WaitGroup,
	completed *atomic.Int32,
	total int,
	progressFn ProgressFunc,
) {
	defer wg.Done()

	p.logger.Debug("worker started", "worker_id", workerID)

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("worker stopping due to context cancellation", "worker_id", workerID)
			return

		case taskItem, ok := <-taskChan:
			if !ok {
				p.logger.Debug("worker finished (no more tasks)", "worker_id", workerID)
				return
			}

			result := ExecuteTask(ctx, taskItem.task.Execute, taskItem.task.ID, p.logger)

			// resultChan is buffered to the task count, so this never blocks
			resultChan <- resultWithIndex[T]{result: result, index: taskItem.index}

			completedCount := completed.Add(1)
			p.logger.Debug("task completed",
				"worker_id", workerID,
				"task", taskItem.task.ID,
				"success", result.Error == nil,
				"progress", fmt.Sprintf("%d/%d", completedCount, total))

			if progressFn != nil {
				progressFn(taskItem.task.ID, int(completedCount), total)
			}
		}
	}
}

// Shutdown gracefully shuts down the pool
// It stops accepting new tasks and waits for in-progress tasks to complete
// The context timeout controls how long to wait for tasks to finish
func (p *Pool[T]) Shutdown(ctx context.Context) error {
	if !p.shutdown.CompareAndSwap(false, true) {
		return fmt.Errorf("pool already shut down")
	}

	p.logger.Debug("shutting down worker pool")

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for p.running.Load() {
		select {
		case <-ctx.Done():
			return fmt.Errorf("shutdown timeout: %w", ctx.Err())
		case <-ticker.C:
		}
	}

	p.logger.Debug("worker pool shut down")
	return nil
}

// IsShutdown returns true if the pool has been shut down
func (p *Pool[T]) IsShutdown() bool {
	return p.shutdown.Load()
}

// IsRunning returns true if the pool is currently executing tasks
func (p *Pool[T]) IsRunning() bool {
	return p.running.Load()
}

// TaskCount returns the number of tasks currently queued
func (p *Pool[T]) TaskCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tasks)
}

// WorkerCount returns the number of workers in the pool
func (p *Pool[T]) WorkerCount() int {
	return p.workers
}

// taskWithIndex pairs a task with its original index for result ordering
type taskWithIndex[T any] struct {
	task  Task[T]
	index int
}

// resultWithIndex pairs a result with its original task index
type resultWithIndex[T any] struct {
	result Result[T]
	index  int
}

// ThreadPool runs tasks on a bounded set of goroutines.
// A fresh Pool is built for every run and shut down when the run ends.
type ThreadPool[T any] struct {
	workers int
	logger  *slog.Logger
	opts    Options
}

// NewThreadPool creates a bounded goroutine pool strategy
func NewThreadPool[T any](workers int, logger *slog.Logger, opts ...Option) *ThreadPool[T] {
	return &ThreadPool[T]{
		workers: workers,
		logger:  loggerOrDefault(logger),
		opts:    NewOptions(opts...),
	}
}

// Name implements Strategy
func (s *ThreadPool[T]) Name() string {
	return "pool"
}

// Run implements Strategy
func (s *ThreadPool[T]) Run(ctx context.Context, n int, w Workload[T]) (*Sink[T], error) {
	if err := validateRun(n, w); err != nil {
		return nil, err
	}
	if err := ValidateWorkerCount(s.workers); err != nil {
		return nil, err
	}

	pool := NewPool[T](s.workers, s.logger)
	for id := 1; id <= n; id++ {
		if err := pool.Submit(Task[T]{ID: id, Execute: w.Func}); err != nil {
			return nil, err
		}
	}

	results := pool.ExecuteWithProgress(ctx, s.opts.Progress)

	sink := NewSink[T](n)
	for _, r := range results {
		if err := sink.Write(r); err != nil {
			return nil, err
		}
	}

	if err := pool.Shutdown(context.Background()); err != nil {
		s.logger.Warn("pool shutdown failed", "error", err)
	}

	return sink, nil
}
