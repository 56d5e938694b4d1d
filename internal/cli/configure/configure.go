package configure

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/landscape-community/landscape-mcp/pkg/printer"
)

// ServerName is the key the Landscape server is registered under in every
// client config.
const ServerName = "landscape"

var (
	configureURL  string
	configurePort string
	configurePath string
)

// ClientConfigurer knows where a client keeps its MCP server list and how
// to add an entry to it.
type ClientConfigurer interface {
	GetClientName() string
	GetConfigPath() (string, error)
	// CreateConfig returns existing with the Landscape server entry added.
	CreateConfig(url string, existing map[string]any) map[string]any
}

// clientConfigurers maps client names to their configurers
var clientConfigurers = map[string]ClientConfigurer{
	"vscode":      &VSCodeConfigurer{},
	"cursor":      &CursorConfigurer{},
	"claude-code": &ClaudeCodeConfigurer{},
}

// VSCodeConfigurer writes .vscode/mcp.json in the working directory.
type VSCodeConfigurer struct{}

func (VSCodeConfigurer) GetClientName() string { return "Visual Studio Code" }

func (VSCodeConfigurer) GetConfigPath() (string, error) {
	return filepath.Join(".vscode", "mcp.json"), nil
}

func (VSCodeConfigurer) CreateConfig(url string, existing map[string]any) map[string]any {
	return withServer(existing, "servers", map[string]any{"type": "http", "url": url})
}

// CursorConfigurer writes ~/.cursor/mcp.json.
type CursorConfigurer struct{}

func (CursorConfigurer) GetClientName() string { return "Cursor" }

func (CursorConfigurer) GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cursor", "mcp.json"), nil
}

func (CursorConfigurer) CreateConfig(url string, existing map[string]any) map[string]any {
	return withServer(existing, "mcpServers", map[string]any{"url": url})
}

// ClaudeCodeConfigurer writes a project-scoped .mcp.json.
type ClaudeCodeConfigurer struct{}

func (ClaudeCodeConfigurer) GetClientName() string { return "Claude Code" }

func (ClaudeCodeConfigurer) GetConfigPath() (string, error) {
	return ".mcp.json", nil
}

func (ClaudeCodeConfigurer) CreateConfig(url string, existing map[string]any) map[string]any {
	return withServer(existing, "mcpServers", map[string]any{"type": "http", "url": url})
}

// withServer sets existing[section][ServerName] = entry, keeping every
// other server the user has configured.
func withServer(existing map[string]any, section string, entry map[string]any) map[string]any {
	if existing == nil {
		existing = map[string]any{}
	}
	servers, ok := existing[section].(map[string]any)
	if !ok {
		servers = map[string]any{}
	}
	servers[ServerName] = entry
	existing[section] = servers
	return existing
}

// NewConfigureCmd creates the configure command
func NewConfigureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure [client-name]",
		Short: "Configure an MCP client",
		Long:  `Adds the Landscape MCP server to a client's MCP configuration so it can connect to landscapectl mcp --transport http.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				_, _ = fmt.Fprintln(out, "Supported clients:")
				names := make([]string, 0, len(clientConfigurers))
				for name := range clientConfigurers {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					_, _ = fmt.Fprintf(out, "  %-15s - %s\n", name, clientConfigurers[name].GetClientName())
				}
				_, _ = fmt.Fprintln(out, "\nExamples:")
				_, _ = fmt.Fprintln(out, "  landscapectl configure cursor")
				_, _ = fmt.Fprintln(out, "  landscapectl configure claude-code --port 9000")
				return nil
			}

			configurer, ok := clientConfigurers[args[0]]
			if !ok {
				return fmt.Errorf("client %q is not supported; run 'landscapectl configure' to see supported clients", args[0])
			}

			url := fmt.Sprintf("http://localhost:%s/mcp", configurePort)
			if configureURL != "" {
				url = configureURL
			}

			configPath := configurePath
			if configPath == "" {
				var err error
				if configPath, err = configurer.GetConfigPath(); err != nil {
					return fmt.Errorf("failed to get config path: %w", err)
				}
			}

			existing, err := readConfigFile(configPath)
			if err != nil {
				return err
			}
			if err := writeConfigFile(configPath, configurer.CreateConfig(url, existing)); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			printer.PrintSuccess(out, fmt.Sprintf("Configured %s (%s)", configurer.GetClientName(), configPath))
			return nil
		},
	}

	cmd.Flags().StringVar(&configureURL, "url", "", "Custom MCP server URL (default: http://localhost:<port>/mcp)")
	cmd.Flags().StringVar(&configurePort, "port", "8000", "Port of the MCP HTTP server")
	cmd.Flags().StringVar(&configurePath, "path", "", "Write to this file instead of the client's default location")

	return cmd
}

func readConfigFile(configPath string) (map[string]any, error) {
	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", configPath, err)
	}
	var existing map[string]any
	if err := json.Unmarshal(data, &existing); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}
	return existing, nil
}

func writeConfigFile(configPath string, config any) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
