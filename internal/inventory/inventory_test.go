package inventory_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/landscape-community/landscape-mcp/pkg/models"
)

var scenarioNow = time.Date(2026, 1, 29, 14, 30, 0, 0, time.UTC)

// fleet decodes machine records the way they arrive from the API.
func fleet(t *testing.T, raw string) []models.Machine {
	t.Helper()
	var machines []models.Machine
	require.NoError(t, json.Unmarshal([]byte(raw), &machines))
	return machines
}

func scenarioFleet(t *testing.T) []models.Machine {
	return fleet(t, `[
		{"id": 1, "hostname": "prod-web-01", "tags": ["production", "web-tier"], "last_ping_time": "2026-01-29T14:20:00Z",
		 "distribution": "Ubuntu 22.04", "annotations": {"env": "prod", "rack": "A1"}},
		{"id": 2, "hostname": "prod-db-01", "tags": ["production", "database-tier"], "last_ping_time": "2026-01-28T13:30:00Z",
		 "distribution": "Ubuntu 22.04", "annotations": {"env": "prod", "owner": "DBA Team"}},
		{"id": 3, "hostname": "staging-web-01", "tags": ["staging", "web-tier"], "last_ping_time": "never",
		 "annotations": {"env": "staging"}}
	]`)
}

func hostnames(machines []models.Machine) []string {
	out := make([]string, 0, len(machines))
	for _, m := range machines {
		out = append(out, m.Hostname)
	}
	return out
}
