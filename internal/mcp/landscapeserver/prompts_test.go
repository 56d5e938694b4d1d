package landscapeserver

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/landscape-community/landscape-mcp/internal/landscape"
	"github.com/landscape-community/landscape-mcp/pkg/models"
)

func getPrompt(t *testing.T, cs *mcp.ClientSession, name string, args map[string]string) string {
	t.Helper()
	res, err := cs.GetPrompt(context.Background(), &mcp.GetPromptParams{Name: name, Arguments: args})
	require.NoError(t, err, "get prompt %s", name)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, mcp.Role("user"), res.Messages[0].Role)
	text, ok := res.Messages[0].Content.(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestSystemHealthCheckPrompt(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := landscape.NewMockSource(ctrl)
	cs := connect(t, source)

	source.EXPECT().GetComputers(gomock.Any(), landscape.ComputerQuery{Query: "tag:production", Limit: 100}).
		Return(decode[models.Machine](t, computersJSON)[:2], nil)
	source.EXPECT().GetAlerts(gomock.Any()).Return(decode[models.Alert](t, alertsJSON), nil)
	source.EXPECT().GetNotPingingComputers(gomock.Any(), 60, 25).Return(nil, nil)

	text := getPrompt(t, cs, PromptSystemHealthCheck, map[string]string{"environment": "production", "severity": "critical"})
	assert.Contains(t, text, "Analyze the health of the production infrastructure")
	assert.Contains(t, text, "filtering by critical severity")
	assert.Contains(t, text, "prod-db-01")
	assert.Contains(t, text, "- Offline Systems: {}")
}

func TestSystemHealthCheckPromptFetchError(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := landscape.NewMockSource(ctrl)
	cs := connect(t, source)

	source.EXPECT().GetComputers(gomock.Any(), landscape.ComputerQuery{Limit: 100}).Return(nil, errors.New("API connection failed"))

	text := getPrompt(t, cs, PromptSystemHealthCheck, nil)
	assert.Contains(t, text, "Analyze the health of the all infrastructure")
	assert.Contains(t, text, "- Computers: Error fetching data: API connection failed")
}

func TestPackageAuditPrompt(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := landscape.NewMockSource(ctrl)
	cs := connect(t, source)

	source.EXPECT().GetPackages(gomock.Any(), landscape.PackageQuery{Search: "openssl", Query: "tag:ALL", Limit: 100}).
		Return(decode[models.Package](t, packagesJSON)[:1], nil)

	text := getPrompt(t, cs, PromptPackageAudit, map[string]string{"package_name": "openssl"})
	assert.Contains(t, text, "- Package: openssl")
	assert.Contains(t, text, "- CVE Severity: all")
	assert.Contains(t, text, `"available_version":"3.1.0"`)
}

func TestIncidentInvestigationPrompt(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := landscape.NewMockSource(ctrl)
	cs := connect(t, source)

	source.EXPECT().GetActivities(gomock.Any(), landscape.ActivityQuery{Limit: 50}).Return(nil, errors.New("timeout"))
	text := getPrompt(t, cs, PromptIncidentInvestigation, nil)
	assert.Contains(t, text, "- Target: all systems")
	assert.Contains(t, text, "Last 24 hours")
	assert.Contains(t, text, "Error fetching activities: timeout")

	source.EXPECT().GetComputers(gomock.Any(), landscape.ComputerQuery{Query: "prod-web-01", Limit: 1}).
		Return(decode[models.Machine](t, computersJSON)[:1], nil)
	source.EXPECT().GetActivities(gomock.Any(), landscape.ActivityQuery{Query: "computer:id:1", Limit: 50}).
		Return(decode[models.Activity](t, activitiesJSON), nil)
	text = getPrompt(t, cs, PromptIncidentInvestigation, map[string]string{"hostname": "prod-web-01", "timeframe": "6"})
	assert.Contains(t, text, "Last 6 hours")
	assert.Contains(t, text, "security-update")
}

func TestCapacityAndCompliancePrompts(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := landscape.NewMockSource(ctrl)
	cs := connect(t, source)

	source.EXPECT().GetComputers(gomock.Any(), landscape.ComputerQuery{Query: "tag:database-tier", Limit: 100}).
		Return(decode[models.Machine](t, computersJSON)[1:2], nil)
	text := getPrompt(t, cs, PromptCapacityPlanning, map[string]string{"tag": "database-tier"})
	assert.Contains(t, text, "Infrastructure Segment: database-tier")
	assert.Contains(t, text, "prod-db-01")

	source.EXPECT().GetComputers(gomock.Any(), landscape.ComputerQuery{Limit: 100}).Return(nil, nil)
	source.EXPECT().GetAlerts(gomock.Any()).Return(nil, nil)
	text = getPrompt(t, cs, PromptComplianceReport, map[string]string{"standard": "SOC2"})
	assert.Contains(t, text, "Compliance Standard(s): SOC2")
	assert.Contains(t, text, "- Systems: {}")
}

func TestUnknownPrompt(t *testing.T) {
	ctrl := gomock.NewController(t)
	cs := connect(t, landscape.NewMockSource(ctrl))

	_, err := cs.GetPrompt(context.Background(), &mcp.GetPromptParams{Name: "unknown_prompt"})
	assert.Error(t, err)
}
