// Package titles is the I/O-bound benchmark workload: task n downloads
// article n and reports its page title.
package titles

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aryankumar/parbench/internal/executor"
	"github.com/aryankumar/parbench/internal/procpool"
	"github.com/aryankumar/parbench/internal/util"
)

// Name identifies the workload to worker processes
const Name = "titles"

// Params configures article fetching
type Params struct {
	BaseURL        string        `json:"base_url"`
	Attempts       int           `json:"attempts"`
	RetryDelay     time.Duration `json:"retry_delay"`
	RequestTimeout time.Duration `json:"request_timeout"`
}

// DefaultParams returns the stock article source and retry policy
func DefaultParams() Params {
	return Params{
		BaseURL:        DefaultBaseURL,
		Attempts:       DefaultAttempts,
		RetryDelay:     DefaultRetryDelay,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Validate checks the params
func (p Params) Validate() error {
	if p.BaseURL == "" {
		return &util.ValidationError{Field: "base-url", Value: p.BaseURL, Message: "must not be empty"}
	}
	if p.Attempts < 1 {
		return &util.ValidationError{Field: "attempts", Value: p.Attempts, Message: "must be at least 1"}
	}
	if p.RetryDelay < 0 {
		return &util.ValidationError{Field: "retry-delay", Value: p.RetryDelay, Message: "must not be negative"}
	}
	if p.RequestTimeout <= 0 {
		return &util.ValidationError{Field: "request-timeout", Value: p.RequestTimeout, Message: "must be positive"}
	}
	return nil
}

// Func returns the task function: fetch article id and extract its title.
// A page that was fetched but has no title yields an empty string.
func Func(p Params, logger *slog.Logger) executor.WorkFunc[string] {
	f := NewFetcher(p, logger)
	return func(ctx context.Context, id int) (string, error) {
		page, err := f.Fetch(ctx, id)
		if err != nil {
			return "", err
		}
		title, err := ExtractTitle(page)
		if err != nil {
			f.logger.Debug("article has no title", "article", id)
			return "", nil
		}
		return title, nil
	}
}

// New builds the named workload so it can also run in worker processes
func New(p Params, logger *slog.Logger) (executor.Workload[string], error) {
	if err := p.Validate(); err != nil {
		return executor.Workload[string]{}, err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return executor.Workload[string]{}, fmt.Errorf("encode titles params: %w", err)
	}
	return executor.Workload[string]{
		Name:   Name,
		Params: raw,
		Func:   Func(p, logger),
	}, nil
}

// Register adds the workload to a worker registry
func Register(reg *procpool.Registry, logger *slog.Logger) {
	reg.Register(Name, func(raw json.RawMessage) (procpool.Func, error) {
		var p Params
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode titles params: %w", err)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return procpool.Erase(Func(p, logger)), nil
	})
}

// noTitle stands in for an empty title in reports, where an empty value
// would read like a missing one
const noTitle = "(no title)"

// Render is the report text for a fetched title
func Render(title string) string {
	if title == "" {
		return noTitle
	}
	return title
}

// Line renders a result the way the benchmark prints it; any failure shows
// as the not-found sentinel
func Line(r executor.Result[string]) string {
	title := r.Value
	if r.Error != nil {
		title = util.NotFoundSentinel
	}
	return fmt.Sprintf("Article %2d title: %s", r.TaskID, title)
}
