package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCmd prints the build information.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := BuildInfo{Version: Version, Commit: GitCommit, BuildDate: BuildDate}
			cliCtx, err := GetCLIContext(cmd)
			if err == nil && cliCtx.OutputFormat == "json" {
				return printJSON(cmd, info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "chemdraw %s (commit: %s, built: %s)\n", info.Version, info.Commit, info.BuildDate)
			return nil
		},
	}
}

//Personal.AI order the ending
