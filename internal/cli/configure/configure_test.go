package configure

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runConfigure(t *testing.T, args ...string) string {
	t.Helper()
	configureURL, configurePort, configurePath = "", "8000", ""

	cmd := NewConfigureCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{}, args...))
	require.NoError(t, cmd.Execute())
	return out.String()
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var v map[string]any
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestConfigureListsClients(t *testing.T) {
	out := runConfigure(t)
	assert.Contains(t, out, "claude-code")
	assert.Contains(t, out, "cursor")
	assert.Contains(t, out, "vscode")
}

func TestConfigureMergesExistingServers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mcpServers": {"other": {"url": "http://other"}}, "theme": "dark"}`), 0o644))

	out := runConfigure(t, "claude-code", "--path", path, "--port", "9000")
	assert.Contains(t, out, "Configured Claude Code")

	got := readJSON(t, path)
	assert.Equal(t, "dark", got["theme"])
	servers := got["mcpServers"].(map[string]any)
	assert.Equal(t, map[string]any{"url": "http://other"}, servers["other"])
	assert.Equal(t, map[string]any{"type": "http", "url": "http://localhost:9000/mcp"}, servers[ServerName])
}

func TestConfigureVSCodeCustomURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".vscode", "mcp.json")

	runConfigure(t, "vscode", "--path", path, "--url", "https://mcp.example.com/mcp")

	got := readJSON(t, path)
	assert.Equal(t, map[string]any{
		"servers": map[string]any{
			ServerName: map[string]any{"type": "http", "url": "https://mcp.example.com/mcp"},
		},
	}, got)
}

func TestConfigureRejectsUnknownClient(t *testing.T) {
	configurePath = ""
	cmd := NewConfigureCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"emacs"})
	assert.ErrorContains(t, cmd.Execute(), `client "emacs" is not supported`)
}
