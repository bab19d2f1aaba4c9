package harness

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aryankumar/parbench/internal/executor"
	"github.com/aryankumar/parbench/internal/procpool"
	"github.com/aryankumar/parbench/internal/util"
)

// Mode selects an execution strategy
type Mode string

const (
	ModeSingle      Mode = "single"
	ModeThreads     Mode = "threads"
	ModePool        Mode = "pool"
	ModeProcessPool Mode = "process_pool"
)

// Modes lists the canonical mode names
var Modes = []Mode{ModeSingle, ModeThreads, ModePool, ModeProcessPool}

var aliases = map[string]Mode{
	"single":       ModeSingle,
	"sequential":   ModeSingle,
	"threads":      ModeThreads,
	"thread":       ModeThreads,
	"pool":         ModePool,
	"process_pool": ModeProcessPool,
	"process-pool": ModeProcessPool,
	"process":      ModeProcessPool,
}

// ParseMode resolves a mode name; matching is case-insensitive and accepts
// the singular forms used by the matmul command
func ParseMode(s string) (Mode, error) {
	if m, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}

	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return "", &util.ValidationError{
		Field:   "mode",
		Value:   s,
		Message: "must be one of " + strings.Join(names, ", "),
	}
}

// Workers is the number of concurrent units a mode uses for n tasks
func (m Mode) Workers(n, poolSize int) int {
	switch m {
	case ModeSingle:
		return 1
	case ModeThreads:
		return n
	default:
		return min(poolSize, n)
	}
}

// StrategyConfig is what NewStrategy needs beyond the mode
type StrategyConfig struct {
	// PoolSize bounds the pool modes
	PoolSize int

	// Worker starts process pool children
	Worker procpool.Command

	Logger  *slog.Logger
	Options []executor.Option
}

// NewStrategy builds the strategy for mode
func NewStrategy[T any](mode Mode, cfg StrategyConfig) (executor.Strategy[T], error) {
	switch mode {
	case ModeSingle:
		return executor.NewSequential[T](cfg.Logger, cfg.Options...), nil
	case ModeThreads:
		return executor.NewThreadPerTask[T](cfg.Logger, cfg.Options...), nil
	case ModePool:
		if err := executor.ValidateWorkerCount(cfg.PoolSize); err != nil {
			return nil, err
		}
		return executor.NewThreadPool[T](cfg.PoolSize, cfg.Logger, cfg.Options...), nil
	case ModeProcessPool:
		if err := executor.ValidateWorkerCount(cfg.PoolSize); err != nil {
			return nil, err
		}
		return procpool.New[T](cfg.PoolSize, cfg.Worker, cfg.Logger, cfg.Options...), nil
	default:
		return nil, fmt.Errorf("unsupported mode %q: %w", mode, util.ErrInvalidConfig)
	}
}
