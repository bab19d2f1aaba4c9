package cli

import (
	"log/slog"

	"github.com/aryankumar/parbench/internal/config"
	"github.com/aryankumar/parbench/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(mgr *config.Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the longest-palindrome endpoint",
		Long: `Start an HTTP server with a single endpoint:

  GET /longest-palindrome/{input}

It answers with the longest palindromic substring of the path segment as
text/plain. The server stops gracefully on SIGINT or SIGTERM.`,
		Example: `  parbench serve
  curl http://127.0.0.1:8000/longest-palindrome/babad`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, mgr.GetConfig())
		},
	}

	cmd.Flags().String("addr", server.DefaultAddr, "listen address")
	bindFlags(mgr, cmd, map[string]string{config.KeyServeAddr: "addr"})

	return cmd
}

func runServe(cmd *cobra.Command, cfg *config.BenchConfig) error {
	srv := server.New(server.Config{
		Addr:            cfg.Serve.Addr,
		ReadTimeout:     cfg.Serve.ReadTimeout,
		WriteTimeout:    cfg.Serve.WriteTimeout,
		ShutdownTimeout: cfg.Serve.ShutdownTimeout,
	}, slog.Default())

	return srv.Run(cmd.Context())
}
