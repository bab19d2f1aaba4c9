package cli

import (
	"fmt"
	"io"

	"github.com/aryankumar/parbench/pkg/version"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display detailed version information for parbench",
		// Version output needs no configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd)
		},
	}

	return cmd
}

func runVersion(cmd *cobra.Command) error {
	info := version.Get()
	out := cmd.OutOrStdout()

	// Only an explicit -o changes the human-readable default
	outputFormat := ""
	if f := cmd.Flags().Lookup("output"); f != nil && f.Changed {
		outputFormat = f.Value.String()
	}

	switch outputFormat {
	case "json":
		return outputJSON(out, info)
	case "yaml":
		return outputYAML(out, info)
	case "table":
		return outputTable(out, info)
	default:
		fmt.Fprintln(out, info.String())
		return nil
	}
}

func outputJSON(w io.Writer, info version.Info) error {
	data, err := info.JSON()
	if err != nil {
		return fmt.Errorf("failed to marshal version info to JSON: %w", err)
	}
	fmt.Fprintln(w, data)
	return nil
}

func outputYAML(w io.Writer, info version.Info) error {
	data, err := yaml.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal version info to YAML: %w", err)
	}
	fmt.Fprint(w, string(data))
	return nil
}

func outputTable(w io.Writer, info version.Info) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"COMPONENT", "VALUE"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.AppendBulk([][]string{
		{"Version", info.Version},
		{"Commit", info.Commit},
		{"Build Time", info.BuildTime},
		{"Go Version", info.GoVersion},
		{"Platform", info.Platform},
	})
	table.Render()
	return nil
}
