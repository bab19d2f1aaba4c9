package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/aryankumar/parbench/internal/config"
	"github.com/aryankumar/parbench/internal/executor"
	"github.com/aryankumar/parbench/internal/harness"
	"github.com/aryankumar/parbench/internal/output"
	"github.com/aryankumar/parbench/internal/procpool"
	"github.com/spf13/cobra"
)

// bindFlags binds command flags to config keys so flags override the config
// file and environment
func bindFlags(mgr *config.Manager, cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			flag = cmd.PersistentFlags().Lookup(name)
		}
		mgr.Viper().BindPFlag(key, flag)
	}
}

// workerCommand re-executes this binary as a process pool child
func workerCommand(cmd *cobra.Command) (procpool.Command, error) {
	args := []string{"worker"}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		args = append(args, "--verbose")
	}
	return procpool.SelfCommand(args...)
}

// newFormatter builds the report formatter from config and flags
func newFormatter(cmd *cobra.Command, cfg *config.BenchConfig) (output.Format, output.Formatter) {
	format := output.Format(cfg.Defaults.OutputFormat)
	wide, _ := cmd.Flags().GetBool("wide")
	return format, output.NewFormatter(format,
		output.WithNoColor(cfg.Defaults.NoColor),
		output.WithWide(wide))
}

// report prints the result lines (unless the format is structured) and then
// the formatted report. runErr is returned unchanged so an interrupted run
// still shows what it finished.
func report[T any](cmd *cobra.Command, cfg *config.BenchConfig, outcome *harness.Outcome[T], line harness.LineFunc[T], runErr error) error {
	out := cmd.OutOrStdout()
	format, formatter := newFormatter(cmd, cfg)

	if !format.Structured() {
		if err := harness.WriteLines(out, outcome.Results, line); err != nil {
			return err
		}
		if format == output.FormatTable {
			fmt.Fprintln(out)
		}
	}

	if err := formatter.FormatReport(out, outcome.Report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return runErr
}

// lockedWriter serializes writes from concurrent progress callbacks
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Println(a ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, a...)
}

// strategyOptions are the executor options every benchmark command shares
func strategyOptions(cfg *config.BenchConfig, extra ...executor.Option) []executor.Option {
	opts := []executor.Option{executor.WithUnboundedWarnThreshold(cfg.Defaults.UnboundedWarnThreshold)}
	return append(opts, extra...)
}
