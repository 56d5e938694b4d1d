package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/landscape-community/landscape-mcp/internal/app"
)

var mcpTransport string

var McpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the Landscape MCP server",
	Long: `Serves the Landscape tools, resources and prompts over MCP.

The stdio transport is meant to be launched by an MCP client. The http
transport listens on MCP_HTTP_HOST:MCP_HTTP_PORT with a health check at /health.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSource(); err != nil {
			return err
		}
		switch mcpTransport {
		case "stdio":
			return app.ServeStdio(cmd.Context(), cfg, source)
		case "http":
			return app.Run(cmd.Context(), cfg, source, app.Options{MCPHTTP: true})
		}
		return fmt.Errorf("unknown transport %q (stdio, http)", mcpTransport)
	},
}

var withMCP bool

var DashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Serve the inventory dashboard",
	Long:  `Serves the inventory dashboard and its JSON API on DASHBOARD_ADDRESS.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSource(); err != nil {
			return err
		}
		return app.Run(cmd.Context(), cfg, source, app.Options{Dashboard: true, MCPHTTP: withMCP})
	},
}

func init() {
	McpCmd.Flags().StringVar(&mcpTransport, "transport", "stdio", "MCP transport (stdio, http)")
	DashboardCmd.Flags().BoolVar(&withMCP, "with-mcp", false, "Also serve the MCP HTTP transport")
}
