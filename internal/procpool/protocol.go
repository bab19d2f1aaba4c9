package procpool

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aryankumar/parbench/internal/util"
)

// Wire protocol between the driver and a worker process.
//
// Both directions carry newline-delimited JSON. The driver opens with one
// Hello, the worker answers with a Reply whose Ready flag is set (or whose
// Error explains why it cannot serve), and from then on each Request is
// answered by exactly one Reply with the same ID. Closing the worker's stdin
// ends the session.

// Hello selects the workload a worker process will serve
type Hello struct {
	Workload string          `json:"workload"`
	Params   json.RawMessage `json:"params,omitempty"`
}

// Request asks the worker to run one task
type Request struct {
	ID int `json:"id"`
}

// Reply carries one task's outcome back to the driver
type Reply struct {
	ID    int             `json:"id"`
	Ready bool            `json:"ready,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
	Error string          `json:"error,omitempty"`
	Code  string          `json:"code,omitempty"`
}

// Error codes that let sentinel errors survive the process boundary
const (
	codeNotFound        = "not_found"
	codeUnknownWorkload = "unknown_workload"
	codeCancelled       = "cancelled"
	codeEncode          = "encode"
)

// RemoteError is a task error reported by a worker process
type RemoteError struct {
	Message string
	Code    string
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	return e.Message
}

// Unwrap maps the wire code back onto the matching sentinel error
func (e *RemoteError) Unwrap() error {
	switch e.Code {
	case codeNotFound:
		return util.ErrNotFound
	case codeUnknownWorkload:
		return util.ErrUnknownWorkload
	case codeCancelled:
		return util.ErrCancelled
	case codeEncode:
		return util.ErrProtocol
	default:
		return nil
	}
}

func codeFor(err error) string {
	switch {
	case util.IsNotFound(err):
		return codeNotFound
	case errors.Is(err, util.ErrUnknownWorkload):
		return codeUnknownWorkload
	case util.IsCancelled(err):
		return codeCancelled
	default:
		return ""
	}
}

func errorReply(id int, err error) Reply {
	return Reply{ID: id, Error: err.Error(), Code: codeFor(err)}
}

// decodeReply turns a reply into a value or the task's error
func decodeReply[T any](reply Reply) (T, error) {
	var value T
	if reply.Error != "" {
		return value, &RemoteError{Message: reply.Error, Code: reply.Code}
	}
	if len(reply.Value) == 0 {
		return value, fmt.Errorf("reply for task %d has no value: %w", reply.ID, util.ErrProtocol)
	}
	if err := json.Unmarshal(reply.Value, &value); err != nil {
		return value, fmt.Errorf("decode value for task %d: %v: %w", reply.ID, err, util.ErrProtocol)
	}
	return value, nil
}
