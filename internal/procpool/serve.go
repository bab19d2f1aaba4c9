package procpool

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
)

// Serve runs the worker side of the protocol until in reaches EOF.
// Replies go to out, one JSON document per line; nothing else may write to out.
// Tasks run one at a time: the worker process is a single execution context.
func Serve(ctx context.Context, in io.Reader, out io.Writer, reg *Registry, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	dec := json.NewDecoder(bufio.NewReader(in))
	bw := bufio.NewWriter(out)
	enc := json.NewEncoder(bw)

	send := func(r Reply) error {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("write reply for task %d: %w", r.ID, err)
		}
		return bw.Flush()
	}

	var hello Hello
	if err := dec.Decode(&hello); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("read hello: %w", err)
	}

	fn, err := reg.Build(hello.Workload, hello.Params)
	if err != nil {
		logger.Error("cannot serve workload", "workload", hello.Workload, "error", err)
		if sendErr := send(errorReply(0, err)); sendErr != nil {
			return sendErr
		}
		return err
	}

	if err := send(Reply{Ready: true}); err != nil {
		return err
	}
	logger.Debug("worker ready", "workload", hello.Workload)

	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				logger.Debug("worker input closed")
				return nil
			}
			return fmt.Errorf("read request: %w", err)
		}

		if err := send(runRequest(ctx, fn, req.ID, logger)); err != nil {
			return err
		}
	}
}

func runRequest(ctx context.Context, fn Func, id int, logger *slog.Logger) (reply Reply) {
	reply.ID = id

	defer func() {
		if r := recover(); r != nil {
			logger.Error("task panicked in worker", "task", id, "panic", r, "stack", string(debug.Stack()))
			reply = Reply{ID: id, Error: fmt.Sprintf("task panicked: %v", r)}
		}
	}()

	value, err := fn(ctx, id)
	if err != nil {
		return errorReply(id, err)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return Reply{ID: id, Error: fmt.Sprintf("encode result: %v", err), Code: codeEncode}
	}
	reply.Value = raw
	return reply
}
