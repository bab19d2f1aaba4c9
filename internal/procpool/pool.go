package procpool

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aryankumar/parbench/internal/executor"
	"github.com/aryankumar/parbench/internal/util"
	"k8s.io/client-go/util/workqueue"
)

// Command describes how to start a worker process
type Command struct {
	// Path is the executable to run
	Path string

	// Args are passed after Path
	Args []string

	// Env is appended to the driver's environment
	Env []string

	// Stderr receives worker logs; nil means the driver's stderr
	Stderr io.Writer
}

// SelfCommand re-executes the running binary with args (typically the
// hidden worker subcommand)
func SelfCommand(args ...string) (Command, error) {
	path, err := os.Executable()
	if err != nil {
		return Command{}, fmt.Errorf("locate executable: %w", err)
	}
	return Command{Path: path, Args: args}, nil
}

// ProcessPool runs tasks on a bounded set of worker processes.
// Each worker has its own address space and runtime; task ids go out and
// results come back as JSON over the worker's stdin and stdout.
type ProcessPool[T any] struct {
	workers int
	cmd     Command
	logger  *slog.Logger
	opts    executor.Options
}

// New creates a process pool strategy
func New[T any](workers int, cmd Command, logger *slog.Logger, opts ...executor.Option) *ProcessPool[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessPool[T]{
		workers: workers,
		cmd:     cmd,
		logger:  logger,
		opts:    executor.NewOptions(opts...),
	}
}

// Name implements executor.Strategy
func (p *ProcessPool[T]) Name() string {
	return "process_pool"
}

// Run implements executor.Strategy.
// A worker that crashes or garbles a reply fails only its in-flight task;
// it is replaced with a fresh process for the tasks that follow.
func (p *ProcessPool[T]) Run(ctx context.Context, n int, w executor.Workload[T]) (*executor.Sink[T], error) {
	if err := executor.ValidateTaskCount(n); err != nil {
		return nil, err
	}
	if err := executor.ValidateWorkerCount(p.workers); err != nil {
		return nil, err
	}
	if w.Name == "" {
		return nil, fmt.Errorf("process pool needs a named workload")
	}
	if p.cmd.Path == "" {
		return nil, fmt.Errorf("process pool needs a worker command")
	}

	workerCount := min(p.workers, n)
	p.logger.Info("starting process pool run",
		"workload", w.Name,
		"tasks", n,
		"workers", workerCount)
	startTime := time.Now()

	queue := workqueue.NewTyped[int]()
	for id := 1; id <= n; id++ {
		queue.Add(id)
	}
	// Workers drain what is queued, then Get reports shutdown
	queue.ShutDown()

	sink := executor.NewSink[T](n)
	var (
		wg        sync.WaitGroup
		completed atomic.Int32
	)

	hello := Hello{Workload: w.Name, Params: w.Params}
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			p.work(ctx, workerID, hello, queue, sink, &completed, n)
		}(i)
	}

	wg.Wait()

	if filled := sink.FillMissing(ctx.Err()); filled > 0 {
		p.logger.Warn("tasks not executed", "count", filled)
	}

	p.logger.Info("process pool run completed",
		"tasks", n,
		"successful", executor.CountSuccessful(sink.Results()),
		"duration", time.Since(startTime))

	return sink, nil
}

// work is one pool slot: it owns at most one live worker process at a time
func (p *ProcessPool[T]) work(
	ctx context.Context,
	workerID int,
	hello Hello,
	queue workqueue.TypedInterface[int],
	sink *executor.Sink[T],
	completed *atomic.Int32,
	total int,
) {
	var proc *workerProcess
	defer func() {
		if proc != nil {
			proc.close()
		}
	}()

	for {
		id, shutdown := queue.Get()
		if shutdown {
			return
		}

		if ctx.Err() != nil {
			queue.Done(id)
			p.logger.Debug("worker stopping due to context cancellation", "worker_id", workerID)
			return
		}

		startTime := time.Now()
		result := executor.Result[T]{TaskID: id}

		if proc == nil {
			var err error
			proc, err = p.start(ctx, hello)
			if err != nil {
				p.logger.Warn("failed to start worker process", "worker_id", workerID, "error", err)
				proc = nil
				result.Error = err
			}
		}

		if proc != nil {
			reply, err := proc.call(id)
			if err != nil {
				// Dead or confused process: fail this task and replace the process
				p.logger.Warn("worker process failed",
					"worker_id", workerID,
					"pid", proc.pid(),
					"task", id,
					"error", err)
				proc.kill()
				proc = nil
				if ctx.Err() != nil {
					result.Error = fmt.Errorf("task interrupted: %w", ctx.Err())
				} else {
					result.Error = err
				}
			} else {
				result.Value, result.Error = decodeReply[T](reply)
			}
		}

		result.Duration = time.Since(startTime)
		if err := sink.Write(result); err != nil {
			p.logger.Error("dropping duplicate result", "task", id, "error", err)
		}
		queue.Done(id)

		c := int(completed.Add(1))
		p.logger.Debug("task completed",
			"worker_id", workerID,
			"task", id,
			"success", result.Error == nil,
			"progress", fmt.Sprintf("%d/%d", c, total))
		p.opts.Report(id, c, total)
	}
}

// start launches a worker process and completes the hello handshake
func (p *ProcessPool[T]) start(ctx context.Context, hello Hello) (*workerProcess, error) {
	cmd := exec.CommandContext(ctx, p.cmd.Path, p.cmd.Args...)
	cmd.Env = append(os.Environ(), p.cmd.Env...)
	cmd.Stderr = p.cmd.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("worker stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("worker stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start worker %s: %w", p.cmd.Path, err)
	}

	proc := &workerProcess{
		cmd:   cmd,
		stdin: stdin,
		enc:   json.NewEncoder(stdin),
		dec:   json.NewDecoder(bufio.NewReader(stdout)),
	}

	if err := proc.enc.Encode(hello); err != nil {
		proc.kill()
		return nil, fmt.Errorf("send hello: %v: %w", err, util.ErrWorkerCrashed)
	}

	var ready Reply
	if err := proc.dec.Decode(&ready); err != nil {
		proc.kill()
		return nil, fmt.Errorf("read handshake: %v: %w", err, util.ErrWorkerCrashed)
	}
	if ready.Error != "" {
		proc.kill()
		return nil, &RemoteError{Message: ready.Error, Code: ready.Code}
	}
	if !ready.Ready {
		proc.kill()
		return nil, fmt.Errorf("worker did not acknowledge hello: %w", util.ErrProtocol)
	}

	p.logger.Debug("worker process started", "pid", proc.pid(), "workload", hello.Workload)
	return proc, nil
}

// workerProcess is one live child plus its JSON pipes
type workerProcess struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	enc   *json.Encoder
	dec   *json.Decoder
}

func (w *workerProcess) pid() int {
	if w.cmd.Process == nil {
		return 0
	}
	return w.cmd.Process.Pid
}

// call sends one request and waits for its reply.
// Errors mean the process can no longer be trusted.
func (w *workerProcess) call(id int) (Reply, error) {
	if err := w.enc.Encode(Request{ID: id}); err != nil {
		return Reply{}, fmt.Errorf("send task %d: %v: %w", id, err, util.ErrWorkerCrashed)
	}

	var reply Reply
	if err := w.dec.Decode(&reply); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Reply{}, fmt.Errorf("task %d: %w", id, util.ErrWorkerCrashed)
		}
		return Reply{}, fmt.Errorf("read reply for task %d: %v: %w", id, err, util.ErrProtocol)
	}

	if reply.ID != id {
		return Reply{}, fmt.Errorf("reply for task %d arrived while waiting for %d: %w", reply.ID, id, util.ErrProtocol)
	}
	return reply, nil
}

// close ends the session and waits for a clean exit
func (w *workerProcess) close() {
	w.stdin.Close()
	w.cmd.Wait()
}

// kill terminates the process without waiting for in-flight work
func (w *workerProcess) kill() {
	if w.cmd.Process != nil {
		w.cmd.Process.Kill()
	}
	w.stdin.Close()
	w.cmd.Wait()
}
