package cli

import (
	"log/slog"

	"github.com/aryankumar/parbench/internal/config"
	"github.com/aryankumar/parbench/internal/harness"
	"github.com/aryankumar/parbench/internal/procpool"
	"github.com/aryankumar/parbench/internal/util"
	"github.com/aryankumar/parbench/internal/workload/titles"
	"github.com/spf13/cobra"
)

func newTitlesCmd(mgr *config.Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "titles",
		Short: "Fetch article titles under a chosen execution strategy",
		Long: `Fetch articles 1..n_tasks and print each page title in task order.

Each article is retried up to --attempts times with a fixed --retry-delay
between tries; articles that never load print NOT FOUND.

Modes:
  single        one task after another
  threads       one goroutine per task (unbounded)
  pool          --pool_size goroutines sharing a queue
  process_pool  --pool_size worker processes`,
		Example: `  # Default: 20 articles on a pool of 10 goroutines
  parbench titles

  # Sequential baseline
  parbench titles --mode single --n_tasks 5

  # Worker processes, machine-readable report
  parbench titles --mode process_pool --pool_size 4 -o json

  # Point at another site; {id} is replaced by the task id
  parbench titles --base-url 'https://example.com/posts/{id}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTitles(cmd, mgr.GetConfig())
		},
	}

	flags := cmd.Flags()
	flags.String("mode", "pool", "execution mode (single, threads, pool, process_pool)")
	flags.Int("n_tasks", 20, "number of articles to fetch")
	flags.Int("pool_size", 10, "workers for the pool modes")
	flags.String("base-url", titles.DefaultBaseURL, "article base URL")
	flags.Int("attempts", titles.DefaultAttempts, "GET attempts per article")
	flags.Duration("retry-delay", titles.DefaultRetryDelay, "fixed delay between attempts")
	flags.Duration("request-timeout", titles.DefaultRequestTimeout, "timeout for a single GET")

	bindFlags(mgr, cmd, map[string]string{
		config.KeyTitlesMode:           "mode",
		config.KeyTitlesTasks:          "n_tasks",
		config.KeyTitlesPoolSize:       "pool_size",
		config.KeyTitlesBaseURL:        "base-url",
		config.KeyTitlesAttempts:       "attempts",
		config.KeyTitlesRetryDelay:     "retry-delay",
		config.KeyTitlesRequestTimeout: "request-timeout",
	})

	return cmd
}

func runTitles(cmd *cobra.Command, cfg *config.BenchConfig) error {
	logger := slog.Default()

	mode, err := harness.ParseMode(cfg.Titles.Mode)
	if err != nil {
		return err
	}

	workload, err := titles.New(titles.Params{
		BaseURL:        cfg.Titles.BaseURL,
		Attempts:       cfg.Titles.Attempts,
		RetryDelay:     cfg.Titles.RetryDelay,
		RequestTimeout: cfg.Titles.RequestTimeout,
	}, logger)
	if err != nil {
		return err
	}

	var worker procpool.Command
	if mode == harness.ModeProcessPool {
		if worker, err = workerCommand(cmd); err != nil {
			return err
		}
	}

	ctx, cancel := util.WithOptionalTimeout(cmd.Context(), cfg.Defaults.Timeout)
	defer cancel()

	outcome, runErr := harness.Execute(ctx, harness.Run[string]{
		Mode:     mode,
		Tasks:    cfg.Titles.Tasks,
		Workload: workload,
		Render:   titles.Render,
		Strategy: harness.StrategyConfig{
			PoolSize: cfg.Titles.PoolSize,
			Worker:   worker,
			Logger:   logger,
			Options:  strategyOptions(cfg),
		},
	})
	if outcome == nil {
		return runErr
	}

	return report(cmd, cfg, outcome, titles.Line, runErr)
}
