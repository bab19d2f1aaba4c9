package cli

import (
	"fmt"

	"github.com/aryankumar/parbench/internal/config"
	"github.com/aryankumar/parbench/internal/output"
	"github.com/spf13/cobra"
)

// newConfigCmd creates the config command group
func newConfigCmd(mgr *config.Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or write the parbench configuration",
		Long: `Settings are layered: defaults, then the config file
($HOME/.parbench.yaml or --config), then PARBENCH_* environment variables
(for example PARBENCH_TITLES_N_TASKS), then command-line flags.`,
	}

	cmd.AddCommand(newConfigViewCmd(mgr))
	cmd.AddCommand(newConfigInitCmd(mgr))

	return cmd
}

func newConfigViewCmd(mgr *config.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := mgr.GetConfig()

			format := output.Format(cfg.Defaults.OutputFormat)
			if format != output.FormatJSON {
				format = output.FormatYAML
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), cfg)
		},
	}
}

func newConfigInitCmd(mgr *config.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := mgr.Save(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "configuration written")
			return nil
		},
	}
}
