// Package executor runs the same work function under different concurrency
// strategies and collects one result per task into an index-addressed sink.
//
// # Strategies
//
//   - Sequential: tasks 1..N in order on the calling goroutine
//   - ThreadPerTask: one goroutine per task, no upper bound
//   - ThreadPool: a bounded Pool of goroutines fed from a queue
//
// The process-backed strategy lives in package procpool and implements the
// same Strategy interface.
//
// # Basic Usage
//
//	w := executor.Workload[int]{
//	    Name: "double",
//	    Func: func(ctx context.Context, id int) (int, error) {
//	        return id * 2, nil
//	    },
//	}
//
//	sink, err := executor.NewThreadPool[int](10, logger).Run(ctx, 20, w)
//	if err != nil {
//	    return err // invalid task count or pool size
//	}
//
//	for _, r := range sink.Results() {
//	    fmt.Println(r.TaskID, r.Value, r.Error)
//	}
//
// # Result Ordering
//
// Slot i of the sink always holds task i, whatever order tasks finish in.
// Each slot is written exactly once; the Sink rejects duplicate and
// out-of-range writes.
//
// # Error Handling
//
// A task error (or panic) is captured in that task's Result and never stops
// other tasks. Run only returns an error for invalid input.
//
// # Cancellation
//
// When ctx is cancelled, tasks that have not started are recorded as failed
// with "task not executed" so the sink is still complete when Run returns.
//
// # Pool
//
// Pool is the reusable bounded worker pool behind ThreadPool:
//
//	pool := executor.NewPool[string](5, logger)
//	pool.Submit(executor.Task[string]{ID: 1, Execute: fetch})
//	results := pool.ExecuteWithProgress(ctx, func(id, completed, total int) {
//	    fmt.Printf("Progress: %d/%d\n", completed, total)
//	})
package executor
