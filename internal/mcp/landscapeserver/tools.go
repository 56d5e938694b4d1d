package landscapeserver

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/landscape-community/landscape-mcp/internal/inventory"
	"github.com/landscape-community/landscape-mcp/internal/landscape"
	"github.com/landscape-community/landscape-mcp/pkg/models"
)

// Tool names.
const (
	ToolQueryComputers    = "landscape_query_computers"
	ToolQueryPackages     = "landscape_query_packages"
	ToolQueryAlerts       = "landscape_query_alerts"
	ToolQueryOffline      = "landscape_query_offline"
	ToolFastPackageLookup = "landscape_fast_package_lookup"
	ToolQueryActivities   = "landscape_query_activities"
)

const (
	packageSearchAllQuery  = "tag:ALL"
	defaultComputerLimit   = 25
	defaultPackageLimit    = 50
	defaultOfflineMinutes  = 60
	defaultOfflineLimit    = 25
	defaultActivitiesLimit = 3
)

const noData = "No data"

type queryComputersArgs struct {
	Query  string `json:"query,omitempty" jsonschema:"tag:production or hostname or needs:reboot:true"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max results"`
	Status string `json:"status,omitempty" jsonschema:"Keep only online or offline computers, derived from last ping time"`
}

type queryPackagesArgs struct {
	Search string `json:"search,omitempty" jsonschema:"Package name"`
	Query  string `json:"query,omitempty" jsonschema:"Filter (e.g., id:707)"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max results"`
}

type queryOfflineArgs struct {
	SinceMinutes int `json:"since_minutes,omitempty" jsonschema:"Offline minutes"`
	Limit        int `json:"limit,omitempty" jsonschema:"Max results"`
}

type fastPackageLookupArgs struct {
	Hostname string `json:"hostname,omitempty" jsonschema:"Hostname"`
	Package  string `json:"package,omitempty" jsonschema:"Package name"`
}

type queryActivitiesArgs struct {
	Hostname string `json:"hostname,omitempty" jsonschema:"Hostname to filter activities (e.g., 'my-laptop'). When provided, only fetches activities for this specific computer."`
	Query    string `json:"query,omitempty" jsonschema:"Additional filter query (e.g., 'status:succeeded' or 'created-after:2026-01-20')"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Number of activities to return (default 3)"`
	Offset   int    `json:"offset,omitempty" jsonschema:"Starting offset for pagination (default 0)"`
}

type noArgs struct{}

func (s *server) addTools(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        ToolQueryComputers,
		Description: "Query computers by tag/hostname/status",
	}, instrument(s, ToolQueryComputers, s.queryComputers))

	mcp.AddTool(srv, &mcp.Tool{
		Name:        ToolQueryPackages,
		Description: "Search packages",
	}, instrument(s, ToolQueryPackages, s.queryPackages))

	mcp.AddTool(srv, &mcp.Tool{
		Name:        ToolQueryAlerts,
		Description: "Get alerts",
	}, instrument(s, ToolQueryAlerts, s.queryAlerts))

	mcp.AddTool(srv, &mcp.Tool{
		Name:        ToolQueryOffline,
		Description: "Get offline computers",
	}, instrument(s, ToolQueryOffline, s.queryOffline))

	mcp.AddTool(srv, &mcp.Tool{
		Name:        ToolFastPackageLookup,
		Description: "Fast package lookup on computer",
	}, instrument(s, ToolFastPackageLookup, s.fastPackageLookup))

	mcp.AddTool(srv, &mcp.Tool{
		Name: ToolQueryActivities,
		Description: "Get activities/audit log for computers. Returns last 3 activities by default. " +
			"Uses efficient API-side filtering when hostname is provided.",
	}, instrument(s, ToolQueryActivities, s.queryActivities))
}

// toolFunc produces the text payload of a tool. A non-nil error is a remote
// failure and is rendered with its kind; it never ends the session.
type toolFunc[In any] func(ctx context.Context, args In) (string, error)

func instrument[In any](s *server, name string, fn toolFunc[In]) mcp.ToolHandlerFor[In, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, args In) (*mcp.CallToolResult, any, error) {
		start := time.Now()
		text, err := fn(ctx, args)
		if err != nil {
			s.log.Warn().Err(err).Str("tool", name).Msg("tool call failed")
			text = fmt.Sprintf("Error (%s): %s", landscape.ErrorKind(err), err)
		}
		s.observe(ctx, name, start, err != nil)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
			IsError: err != nil,
		}, nil, nil
	}
}

func (s *server) queryComputers(ctx context.Context, args queryComputersArgs) (string, error) {
	status, err := inventory.ParseStatusFilter(args.Status)
	if err != nil {
		return "Error: " + err.Error(), nil
	}

	computers, err := s.source.GetComputers(ctx, landscape.ComputerQuery{
		Query: args.Query,
		Limit: orDefault(args.Limit, defaultComputerLimit),
	})
	if err != nil {
		return "", err
	}
	return formatList(inventory.FilterStatus(computers, status, s.now())), nil
}

func (s *server) queryPackages(ctx context.Context, args queryPackagesArgs) (string, error) {
	search := args.Search
	if search == "" && args.Query != "" {
		search = args.Query
	}
	if search == "" {
		return "Error: 'search' parameter is required", nil
	}

	packages, err := s.source.GetPackages(ctx, landscape.PackageQuery{
		Query:  packageSearchAllQuery,
		Search: search,
		Limit:  orDefault(args.Limit, defaultPackageLimit),
	})
	if err != nil {
		return "", err
	}
	return formatList(packages), nil
}

func (s *server) queryAlerts(ctx context.Context, _ noArgs) (string, error) {
	alerts, err := s.source.GetAlerts(ctx)
	if err != nil {
		return "", err
	}
	return formatList(alerts), nil
}

func (s *server) queryOffline(ctx context.Context, args queryOfflineArgs) (string, error) {
	computers, err := s.source.GetNotPingingComputers(ctx,
		orDefault(args.SinceMinutes, defaultOfflineMinutes),
		orDefault(args.Limit, defaultOfflineLimit),
	)
	if err != nil {
		return "", err
	}
	return formatList(computers), nil
}

func (s *server) fastPackageLookup(ctx context.Context, args fastPackageLookupArgs) (string, error) {
	if args.Hostname == "" || args.Package == "" {
		return "Error: 'hostname' and 'package' parameters are required", nil
	}
	return toJSON(s.packageOnComputer(ctx, args.Hostname, args.Package)), nil
}

func (s *server) queryActivities(ctx context.Context, args queryActivitiesArgs) (string, error) {
	result := s.activitiesForComputer(ctx, args.Hostname, args.Query,
		orDefault(args.Limit, defaultActivitiesLimit), args.Offset)
	if activities, ok := result.([]models.Activity); ok {
		return formatList(activities), nil
	}
	return toJSON(result), nil
}

// formatList renders an empty result as "No data" and anything else as JSON.
func formatList[T any](items []T) string {
	if len(items) == 0 {
		return noData
	}
	return toJSON(items)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
