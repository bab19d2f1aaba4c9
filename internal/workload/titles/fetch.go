package titles

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aryankumar/parbench/internal/util"
	"github.com/aryankumar/parbench/pkg/version"
	"github.com/valyala/fasthttp"
	"k8s.io/apimachinery/pkg/util/wait"
)

const (
	// DefaultBaseURL is the article listing the benchmark reads from
	DefaultBaseURL = "https://habr.com/ru/articles"

	// DefaultAttempts is how many GETs are made before giving up on an article
	DefaultAttempts = 5

	// DefaultRetryDelay is the fixed pause between attempts
	DefaultRetryDelay = time.Second

	// DefaultRequestTimeout bounds a single GET
	DefaultRequestTimeout = 30 * time.Second

	maxRedirects = 5
)

// idPlaceholder is replaced by the task id when present in the base URL
const idPlaceholder = "{id}"

// Fetcher downloads article pages with a bounded, fixed-delay retry loop
type Fetcher struct {
	client         *fasthttp.Client
	baseURL        string
	attempts       int
	retryDelay     time.Duration
	requestTimeout time.Duration
	logger         *slog.Logger
}

// NewFetcher creates a fetcher from validated params
func NewFetcher(p Params, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Fetcher{
		client: &fasthttp.Client{
			Name:                version.Get().UserAgent(),
			MaxConnsPerHost:     512,
			MaxIdleConnDuration: 90 * time.Second,
			ReadTimeout:         p.RequestTimeout,
			WriteTimeout:        p.RequestTimeout,
		},
		baseURL:        p.BaseURL,
		attempts:       p.Attempts,
		retryDelay:     p.RetryDelay,
		requestTimeout: p.RequestTimeout,
		logger:         logger,
	}
}

// URL returns the address of article id
func (f *Fetcher) URL(id int) string {
	if strings.Contains(f.baseURL, idPlaceholder) {
		return strings.ReplaceAll(f.baseURL, idPlaceholder, strconv.Itoa(id))
	}
	return strings.TrimRight(f.baseURL, "/") + "/" + strconv.Itoa(id)
}

// Fetch returns the body of article id.
// Any transport error or non-200 status is retried after a fixed delay, up to
// the attempt budget; when the budget runs out the error wraps util.ErrNotFound.
func (f *Fetcher) Fetch(ctx context.Context, id int) ([]byte, error) {
	url := f.URL(id)

	backoff := wait.Backoff{
		Duration: f.retryDelay,
		Factor:   1.0,
		Steps:    f.attempts,
	}

	var (
		body    []byte
		lastErr error
		attempt int
	)

	err := wait.ExponentialBackoffWithContext(ctx, backoff, func(ctx context.Context) (bool, error) {
		attempt++
		b, status, err := f.get(ctx, url)
		switch {
		case err != nil:
			lastErr = err
		case status != fasthttp.StatusOK:
			lastErr = fmt.Errorf("unexpected status %d", status)
		default:
			body = b
			return true, nil
		}

		f.logger.Debug("article fetch attempt failed",
			"article", id,
			"attempt", attempt,
			"of", f.attempts,
			"error", lastErr)
		return false, nil
	})

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("fetch article %d: %w", id, ctxErr)
		}
		return nil, fmt.Errorf("article %d after %d attempts (%v): %w", id, attempt, lastErr, util.ErrNotFound)
	}

	return body, nil
}

// page is the outcome of one GET
type page struct {
	body   []byte
	status int
	err    error
}

// get performs a single GET following redirects and copies the body out of
// fasthttp's pooled buffers. The request timeout is capped at the context
// deadline, and get returns as soon as ctx is done even if the request is
// still in flight.
func (f *Fetcher) get(ctx context.Context, url string) ([]byte, int, error) {
	timeout := f.requestTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if timeout <= 0 {
		return nil, 0, context.DeadlineExceeded
	}

	done := make(chan page, 1)
	go func() {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(url)
		req.Header.SetMethod(fasthttp.MethodGet)
		req.SetTimeout(timeout)

		if err := f.client.DoRedirects(req, resp, maxRedirects); err != nil {
			done <- page{err: err}
			return
		}

		body := make([]byte, len(resp.Body()))
		copy(body, resp.Body())
		done <- page{body: body, status: resp.StatusCode()}
	}()

	select {
	case p := <-done:
		return p.body, p.status, p.err
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	}
}
