package cli

import (
	"log/slog"
	"strings"
	"time"

	"github.com/aryankumar/parbench/internal/config"
	"github.com/aryankumar/parbench/internal/executor"
	"github.com/aryankumar/parbench/internal/harness"
	"github.com/aryankumar/parbench/internal/procpool"
	"github.com/aryankumar/parbench/internal/util"
	"github.com/aryankumar/parbench/internal/workload/matmul"
	"github.com/spf13/cobra"
)

// finishedMarker is printed as each job completes
const finishedMarker = "Finished"

func newMatmulCmd(mgr *config.Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matmul",
		Short: "Multiply random matrices with threads or processes",
		Long: `Multiply a rows×inner matrix by an inner×cols matrix with the plain triple loop.

Without --njobs a single multiplication runs in the calling goroutine as a
baseline. With --njobs N, N independent multiplications run concurrently:
--mode thread starts one goroutine per job, --mode process spreads the jobs
over --pool_size worker processes. "Finished" is printed as each job
completes, then one result line per job in job order.`,
		Example: `  # Single multiplication baseline
  parbench matmul

  # Eight jobs on worker processes
  parbench matmul --njobs 8 --mode process

  # Eight jobs on goroutines, smaller matrices, reproducible inputs
  parbench matmul --njobs 8 --mode thread --rows 200 --cols 200 --seed 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatmul(cmd, mgr.GetConfig())
		},
	}

	flags := cmd.Flags()
	flags.Int("njobs", 0, "number of concurrent jobs (omit for a single run)")
	flags.String("mode", "process", "execution mode (thread or process)")
	flags.Int("pool_size", 0, "worker processes for process mode (default: CPU count)")
	flags.Int("rows", matmul.DefaultRows, "rows of the left matrix")
	flags.Int("inner", matmul.DefaultInner, "shared dimension")
	flags.Int("cols", matmul.DefaultCols, "columns of the right matrix")
	flags.Uint64("seed", 0, "matrix seed (0 picks a fresh one)")

	bindFlags(mgr, cmd, map[string]string{
		config.KeyMatmulJobs:     "njobs",
		config.KeyMatmulMode:     "mode",
		config.KeyMatmulPoolSize: "pool_size",
		config.KeyMatmulRows:     "rows",
		config.KeyMatmulInner:    "inner",
		config.KeyMatmulCols:     "cols",
		config.KeyMatmulSeed:     "seed",
	})

	return cmd
}

func runMatmul(cmd *cobra.Command, cfg *config.BenchConfig) error {
	logger := slog.Default()

	mode, tasks := harness.ModeSingle, 1
	if !cfg.Matmul.Single {
		var err error
		if mode, err = parseMatmulMode(cfg.Matmul.Mode); err != nil {
			return err
		}
		tasks = cfg.Matmul.Jobs
	}

	seed := cfg.Matmul.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	logger.Debug("matrix seed", "seed", seed)

	workload, err := matmul.New(matmul.Params{
		Rows:  cfg.Matmul.Rows,
		Inner: cfg.Matmul.Inner,
		Cols:  cfg.Matmul.Cols,
		Seed:  seed,
	})
	if err != nil {
		return err
	}

	var worker procpool.Command
	if mode == harness.ModeProcessPool {
		if worker, err = workerCommand(cmd); err != nil {
			return err
		}
	}

	format, _ := newFormatter(cmd, cfg)
	var opts []executor.Option
	if !format.Structured() {
		out := &lockedWriter{w: cmd.OutOrStdout()}
		opts = append(opts, executor.WithProgress(func(taskID, completed, total int) {
			out.Println(finishedMarker)
		}))
	}

	ctx, cancel := util.WithOptionalTimeout(cmd.Context(), cfg.Defaults.Timeout)
	defer cancel()

	outcome, runErr := harness.Execute(ctx, harness.Run[matmul.Product]{
		Mode:     mode,
		Tasks:    tasks,
		Workload: workload,
		Strategy: harness.StrategyConfig{
			PoolSize: cfg.Matmul.PoolSize,
			Worker:   worker,
			Logger:   logger,
			Options:  strategyOptions(cfg, opts...),
		},
	})
	if outcome == nil {
		return runErr
	}

	return report(cmd, cfg, outcome, matmul.Line, runErr)
}

// parseMatmulMode accepts any mode name but reports errors in terms of the
// two modes matmul documents
func parseMatmulMode(s string) (harness.Mode, error) {
	mode, err := harness.ParseMode(s)
	if err != nil {
		return "", util.NewValidationError("mode", s, "must be one of "+strings.Join(matmulModes, ", "))
	}
	return mode, nil
}
