package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/landscape-community/landscape-mcp/internal/config"
	"github.com/landscape-community/landscape-mcp/internal/landscape"
	"github.com/landscape-community/landscape-mcp/pkg/models"
)

const fleetJSON = `[
	{"id": 1, "hostname": "web-01", "tags": ["production", "web-tier", "Dublin"],
	 "annotations": {"env": "prod"}, "distribution": "Ubuntu 22.04",
	 "last_ping_time": "2026-01-29T14:20:00Z", "cloud": "aws"},
	{"id": 2, "hostname": "db-01", "tags": ["production", "database-tier", "Engineering"],
	 "annotations": {"env": "prod"}, "distribution": "Ubuntu 22.04",
	 "last_ping_time": "2026-01-27T10:00:00Z"},
	{"id": 3, "hostname": "staging-01", "tags": ["staging", "web-tier"],
	 "last_ping_time": "never"}
]`

var testNow = time.Date(2026, 1, 29, 14, 30, 0, 0, time.UTC)

func setup(t *testing.T) *landscape.MockSource {
	t.Helper()
	return setupFleet(t, fleetJSON)
}

func setupFleet(t *testing.T, fleet string) *landscape.MockSource {
	t.Helper()
	var machines []models.Machine
	require.NoError(t, json.Unmarshal([]byte(fleet), &machines))

	c, err := config.FromMap(map[string]string{
		"LANDSCAPE_API_URI":    "https://landscape.example.com/api/",
		"LANDSCAPE_API_KEY":    "key",
		"LANDSCAPE_API_SECRET": "secret",
	})
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	src := landscape.NewMockSource(ctrl)
	src.EXPECT().GetComputers(gomock.Any(), landscape.ComputerQuery{
		Query:           "tag:ALL",
		Limit:           300,
		WithAnnotations: true,
	}).Return(machines, nil).AnyTimes()

	SetConfig(c)
	SetSource(src)
	now = func() time.Time { return testNow }
	resetFlags()

	t.Cleanup(func() {
		SetConfig(nil)
		SetSource(nil)
		now = time.Now
	})
	return src
}

// resetFlags restores flag-bound package state between command runs.
func resetFlags() {
	for _, f := range []*filterFlags{&machineFilters, &statsFilters, &tagFilters, &exportFilters} {
		*f = filterFlags{status: "all"}
	}
	machinesOutput, statsOutput, tagsOutput = "table", "table", "table"
	exportFormat, exportFile = "csv", ""
	noHeaders = false
	for _, cmd := range []*cobra.Command{machinesListCmd, machinesStatsCmd, TagsCmd, ExportCmd} {
		cmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMachinesListTable(t *testing.T) {
	setup(t)

	out, err := run(t, MachinesCmd, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "HOSTNAME")
	assert.Contains(t, out, "web-01")
	assert.Contains(t, out, "Online")
	assert.Contains(t, out, "Offline")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "never")
	assert.NotContains(t, out, "ANNOTATIONS")

	resetFlags()
	out, err = run(t, MachinesCmd, "list", "--no-headers")
	require.NoError(t, err)
	assert.NotContains(t, out, "HOSTNAME")
	assert.Contains(t, out, "staging-01")
}

func TestMachinesListMissingFields(t *testing.T) {
	setupFleet(t, `[
		{"id": 7, "hostname": "bare-01", "distribution": ""},
		{"id": 8, "hostname": "bare-02"}
	]`)

	out, err := run(t, MachinesCmd, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Never")
	// Only the machine without a distribution field is reported as N/A.
	assert.Equal(t, 1, strings.Count(out, "N/A"))
}

func TestMachinesListWide(t *testing.T) {
	setup(t)

	out, err := run(t, MachinesCmd, "list", "-o", "wide")
	require.NoError(t, err)
	assert.Contains(t, out, "TAGS")
	assert.Contains(t, out, "ANNOTATIONS")
}

func TestMachinesListJSONKeepsRawRecords(t *testing.T) {
	setup(t)

	out, err := run(t, MachinesCmd, "list", "-t", "web-tier", "-o", "json")
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "web-01", records[0]["hostname"])
	assert.Equal(t, "aws", records[0]["cloud"])
	assert.Equal(t, "staging-01", records[1]["hostname"])
}

func TestMachinesListFilters(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		hosts []string
	}{
		{"offline", []string{"--status", "OFFLINE"}, []string{"db-01", "staging-01"}},
		{"annotation", []string{"-a", "env=prod"}, []string{"web-01", "db-01"}},
		{"search", []string{"-s", "STAGING"}, []string{"staging-01"}},
		{"tag and status", []string{"-t", "production", "--status", "online"}, []string{"web-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup(t)

			out, err := run(t, MachinesCmd, append([]string{"list", "-o", "json"}, tt.args...)...)
			require.NoError(t, err)

			var records []models.Machine
			require.NoError(t, json.Unmarshal([]byte(out), &records))
			var hosts []string
			for _, m := range records {
				hosts = append(hosts, m.Hostname)
			}
			assert.Equal(t, tt.hosts, hosts)
		})
	}
}

func TestMachinesListAnnotationWithComma(t *testing.T) {
	setupFleet(t, `[
		{"id": 1, "hostname": "dub-01", "annotations": {"site": "Dublin, IE"}},
		{"id": 2, "hostname": "dub-02", "annotations": {"site": "Dublin"}}
	]`)

	out, err := run(t, MachinesCmd, "list", "-o", "json", "-a", "site=Dublin, IE")
	require.NoError(t, err)

	var records []models.Machine
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "dub-01", records[0].Hostname)
}

func TestMachinesListNoMatches(t *testing.T) {
	setup(t)

	out, err := run(t, MachinesCmd, "list", "-t", "missing")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMachinesListRejectsBadFlags(t *testing.T) {
	setup(t)

	_, err := run(t, MachinesCmd, "list", "--status", "sleeping")
	assert.ErrorContains(t, err, "invalid status filter")

	resetFlags()
	_, err = run(t, MachinesCmd, "list", "-a", "env")
	assert.Error(t, err)

	resetFlags()
	_, err = run(t, MachinesCmd, "list", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestMachinesStats(t *testing.T) {
	setup(t)

	out, err := run(t, MachinesCmd, "stats", "-o", "json")
	require.NoError(t, err)

	var stats map[string]float64
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 3.0, stats["total"])
	assert.Equal(t, 1.0, stats["online"])
	assert.Equal(t, 2.0, stats["offline"])
	assert.Equal(t, 2.0, stats["distributions"])
	assert.InDelta(t, 2.67, stats["average_tags"], 0.01)

	resetFlags()
	out, err = run(t, MachinesCmd, "stats", "--status", "online")
	require.NoError(t, err)
	assert.Contains(t, out, "Landscape inventory")
	assert.Contains(t, out, "Machines")
	assert.Contains(t, out, "Avg tags")
}

func TestTags(t *testing.T) {
	setup(t)

	out, err := run(t, TagsCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Locations:")
	assert.Contains(t, out, "Dublin (1)")
	assert.Contains(t, out, "Teams:")
	assert.Contains(t, out, "Engineering (1)")
	assert.Contains(t, out, "production (2)")
}

func TestExportSummaryToStdout(t *testing.T) {
	setup(t)

	out, err := run(t, ExportCmd, "--format", "summary", "--file", "-", "--status", "offline")
	require.NoError(t, err)

	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 2.0, summary["total_machines"])
	assert.Equal(t, 0.0, summary["online_machines"])
	assert.Equal(t, 2.0, summary["offline_machines"])
	assert.Equal(t, 6.0, summary["unique_tags"])
	assert.Equal(t, 1.0, summary["unique_annotations"])
	assert.Equal(t, "2026-01-29T14:30:00.000000", summary["export_date"])
}

func TestExportCSVToFile(t *testing.T) {
	setup(t)
	path := filepath.Join(t.TempDir(), "fleet.csv")

	out, err := run(t, ExportCmd, "--file", path)
	require.NoError(t, err)
	assert.Equal(t, "✓ Exported 3 machines to "+path+"\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "web-01")
	assert.Contains(t, string(data), "staging-01")
}

func TestExportDefaultFilename(t *testing.T) {
	setup(t)
	t.Chdir(t.TempDir())

	_, err := run(t, ExportCmd, "--format", "json")
	require.NoError(t, err)
	_, err = os.Stat("landscape_machines_20260129_143000.json")
	assert.NoError(t, err)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	setup(t)

	_, err := run(t, ExportCmd, "--format", "xlsx")
	assert.ErrorContains(t, err, "unknown export format")
}

func TestFetchFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := landscape.NewMockSource(ctrl)
	src.EXPECT().GetComputers(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	c, err := config.FromMap(map[string]string{"LANDSCAPE_API_URI": "https://x/api/"})
	require.NoError(t, err)
	SetConfig(c)
	SetSource(src)
	resetFlags()
	t.Cleanup(func() { SetConfig(nil); SetSource(nil) })

	_, err = run(t, MachinesCmd, "list")
	assert.ErrorContains(t, err, "connection refused")
}

func TestCommandsRequireSource(t *testing.T) {
	SetConfig(nil)
	SetSource(nil)
	resetFlags()

	_, err := run(t, TagsCmd)
	assert.ErrorContains(t, err, "not initialized")
}

func TestMcpRejectsUnknownTransport(t *testing.T) {
	setup(t)
	t.Cleanup(func() { mcpTransport = "stdio" })

	_, err := run(t, McpCmd, "--transport", "sse")
	assert.ErrorContains(t, err, "unknown transport")
}

func TestVersion(t *testing.T) {
	out, err := run(t, VersionCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "landscapectl version dev")
}
