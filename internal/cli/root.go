package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/aryankumar/parbench/internal/config"
	"github.com/spf13/cobra"
)

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	var cfgFile string
	mgr := config.NewManager("")

	rootCmd := &cobra.Command{
		Use:   "parbench",
		Short: "parbench - compare sequential, threaded and multi-process execution",
		Long: `parbench runs the same batch of tasks under different execution strategies
and reports per-task results in task order, plus timing and latency percentiles.

Two workloads are built in: an I/O-bound article title fetch (titles) and a
CPU-bound naive matrix multiplication (matmul). The serve command exposes a
small palindrome endpoint over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, mgr, cfgFile)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.parbench.yaml)")
	flags.StringP("output", "o", "table", "report format (table, json, yaml, text)")
	flags.BoolP("verbose", "v", false, "verbose output with debug logging")
	flags.Bool("no-color", false, "disable colored output")
	flags.Duration("timeout", 0, "deadline for the whole run (0 means none)")
	flags.Bool("wide", false, "add a per-task table to table output")

	bindFlags(mgr, rootCmd, map[string]string{
		config.KeyOutput:  "output",
		config.KeyNoColor: "no-color",
		config.KeyTimeout: "timeout",
	})

	rootCmd.AddCommand(newTitlesCmd(mgr))
	rootCmd.AddCommand(newMatmulCmd(mgr))
	rootCmd.AddCommand(newServeCmd(mgr))
	rootCmd.AddCommand(newConfigCmd(mgr))
	rootCmd.AddCommand(newWorkerCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	registerValueCompletions(rootCmd)

	return rootCmd
}

// initConfig loads configuration and sets up logging
func initConfig(cmd *cobra.Command, mgr *config.Manager, cfgFile string) error {
	mgr.SetConfigPath(cfgFile)

	cfg, err := mgr.Load()
	if err != nil {
		return err
	}

	setupLogging(cmd, cfg.Defaults.NoColor)

	if file := mgr.ConfigFileUsed(); file != "" {
		slog.Debug("loaded configuration", "file", file)
	}
	return nil
}

// setupLogging configures structured logging with slog
func setupLogging(cmd *cobra.Command, noColor bool) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if noColor {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))

	if verbose {
		slog.Debug("verbose logging enabled")
	}
}
