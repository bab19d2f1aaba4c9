package util

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// SetupSignalHandler creates a context that is cancelled on receiving SIGINT or SIGTERM.
// A second signal forces immediate exit, which also kills any worker processes
// started with this context.
func SetupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal, cancelling in-flight tasks", "signal", sig.String())
		cancel()

		sig = <-sigCh
		slog.Warn("received second shutdown signal, forcing exit", "signal", sig.String())
		os.Exit(1)
	}()

	return ctx
}

// WithOptionalTimeout bounds ctx by d when d is positive.
// A zero or negative d leaves the run without an overall deadline.
func WithOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
