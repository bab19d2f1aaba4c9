package cli

import (
	"log/slog"

	"github.com/aryankumar/parbench/internal/procpool"
	"github.com/aryankumar/parbench/internal/workload/matmul"
	"github.com/aryankumar/parbench/internal/workload/titles"
	"github.com/spf13/cobra"
)

// workerRegistry lists every workload a worker process can run
func workerRegistry(logger *slog.Logger) *procpool.Registry {
	reg := procpool.NewRegistry()
	titles.Register(reg, logger)
	matmul.Register(reg)
	return reg
}

// newWorkerCmd creates the hidden process pool child command
func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "worker",
		Short:  "Run as a process pool worker (internal)",
		Hidden: true,
		Args:   cobra.NoArgs,
		// Workers read no config file; the driver sends everything they need
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cmd, false)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.Default()
			return procpool.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), workerRegistry(logger), logger)
		},
	}
}
