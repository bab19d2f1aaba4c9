package cli

import (
	"fmt"

	"github.com/aryankumar/parbench/internal/config"
	"github.com/aryankumar/parbench/internal/harness"
	"github.com/spf13/cobra"
)

// matmulModes are the modes the matmul help advertises; ParseMode accepts more
var matmulModes = []string{"thread", "process"}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for parbench. Besides subcommands and
flags, the scripts complete --mode and --output values.

Bash:
  $ source <(parbench completion bash)

Zsh:
  $ parbench completion zsh > "${fpath[1]}/_parbench"

Fish:
  $ parbench completion fish > ~/.config/fish/completions/parbench.fish

PowerShell:
  PS> parbench completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// Generating a script needs no configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCompletion(cmd, args[0])
		},
	}
}

func writeCompletion(cmd *cobra.Command, shell string) error {
	root, out := cmd.Root(), cmd.OutOrStdout()
	switch shell {
	case "bash":
		return root.GenBashCompletion(out)
	case "zsh":
		return root.GenZshCompletion(out)
	case "fish":
		return root.GenFishCompletion(out, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(out)
	default:
		return fmt.Errorf("unsupported shell type %q", shell)
	}
}

// registerValueCompletions offers the fixed value sets for --output and
// each command's --mode
func registerValueCompletions(root *cobra.Command) {
	fixed := func(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return values, cobra.ShellCompDirectiveNoFileComp
		}
	}

	root.RegisterFlagCompletionFunc("output", fixed(config.OutputFormats...))

	titleModes := make([]string, len(harness.Modes))
	for i, m := range harness.Modes {
		titleModes[i] = string(m)
	}

	for _, sub := range root.Commands() {
		switch sub.Name() {
		case "titles":
			sub.RegisterFlagCompletionFunc("mode", fixed(titleModes...))
		case "matmul":
			sub.RegisterFlagCompletionFunc("mode", fixed(matmulModes...))
		}
	}
}
