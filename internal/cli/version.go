package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/landscape-community/landscape-mcp/internal/version"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "landscapectl version %s\n", version.Version)
		fmt.Fprintf(out, "Git commit: %s\n", version.GitCommit)
		fmt.Fprintf(out, "Build date: %s\n", version.BuildDate)
	},
}
