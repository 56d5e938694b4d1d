// Package cli assembles the landscapectl command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/landscape-community/landscape-mcp/internal/cli"
	"github.com/landscape-community/landscape-mcp/internal/cli/configure"
	"github.com/landscape-community/landscape-mcp/internal/config"
	"github.com/landscape-community/landscape-mcp/internal/landscape"
	"github.com/landscape-community/landscape-mcp/internal/logger"
)

// offlineAnnotation marks commands that run without Landscape credentials.
const offlineAnnotation = "landscapectl/offline"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "landscapectl",
	Short: "Landscape inventory CLI and MCP server",
	Long: `landscapectl reads machine inventory from the Landscape API. It serves
an MCP server for AI assistants, an inventory dashboard, and prints or
exports the inventory from the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewConfig()
		if err != nil {
			return err
		}
		logCfg := cfg.LoggerConfig()
		if verbose {
			logCfg.Level = "debug"
		}
		if err := logger.Init(logCfg); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cli.SetConfig(cfg)

		if isOffline(cmd) {
			return nil
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		client, err := landscape.NewClient(cfg.LandscapeClientConfig())
		if err != nil {
			return fmt.Errorf("landscape client not initialized: %w", err)
		}
		cli.SetSource(client)
		return nil
	},
}

func isOffline(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[offlineAnnotation]; ok {
			return true
		}
	}
	return false
}

func markOffline(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[offlineAnnotation] = "true"
	return cmd
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Verbose output")

	rootCmd.AddCommand(cli.McpCmd)
	rootCmd.AddCommand(cli.DashboardCmd)
	rootCmd.AddCommand(cli.MachinesCmd)
	rootCmd.AddCommand(cli.TagsCmd)
	rootCmd.AddCommand(cli.ExportCmd)
	rootCmd.AddCommand(markOffline(cli.VersionCmd))
	rootCmd.AddCommand(markOffline(configure.NewConfigureCmd()))
}

func Root() *cobra.Command {
	return rootCmd
}
