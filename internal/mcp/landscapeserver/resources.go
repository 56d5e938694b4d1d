package landscapeserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/landscape-community/landscape-mcp/internal/inventory"
	"github.com/landscape-community/landscape-mcp/internal/landscape"
	"github.com/landscape-community/landscape-mcp/pkg/models"
)

// Resource URIs.
const (
	ResourceSummary          = "landscape://infrastructure/summary"
	ResourceActiveAlerts     = "landscape://alerts/active"
	ResourceOnlineComputers  = "landscape://computers/online"
	ResourceOfflineComputers = "landscape://computers/offline"
	ResourceRecentActivity   = "landscape://activities/recent"
	ResourceSecurityUpdates  = "landscape://packages/security-updates"

	TemplateComputersByTag    = "landscape://computers/{tag}"
	TemplateMachineActivities = "landscape://activities/{hostname}"

	computersPrefix  = "landscape://computers/"
	activitiesPrefix = "landscape://activities/"

	resourceMIMEType    = "application/json"
	resourceFetchLimit  = 1000
	recentActivityLimit = 50
	offlineSinceMinutes = 60
)

type resourceFunc func(ctx context.Context, uri string) any

func (s *server) addResources(srv *mcp.Server) {
	static := []struct {
		uri, name, description string
		fn                     resourceFunc
	}{
		{ResourceSummary, "Infrastructure Summary",
			"Real-time overview of all managed systems, their status, and key metrics", s.readSummary},
		{ResourceActiveAlerts, "Active Alerts",
			"Current system alerts with severity levels and affected hosts", s.readAlerts},
		{ResourceOnlineComputers, "Online Computers",
			"List of all currently online managed systems", s.readOnline},
		{ResourceOfflineComputers, "Offline Computers",
			"List of systems currently offline (not pinging)", s.readOffline},
		{ResourceRecentActivity, "Recent Activities",
			"Recent system activities and audit log entries (last 50 activities)", s.readRecentActivities},
		{ResourceSecurityUpdates, "Security Updates Available",
			"Packages with available security updates across infrastructure", s.readSecurityUpdates},
	}
	for _, r := range static {
		srv.AddResource(&mcp.Resource{
			URI:         r.uri,
			Name:        r.name,
			Description: r.description,
			MIMEType:    resourceMIMEType,
		}, jsonResource(r.fn))
	}

	srv.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: TemplateComputersByTag,
		Name:        "Computers by Tag",
		Description: "Filter computers by infrastructure tag (e.g., production, staging, database-tier)",
		MIMEType:    resourceMIMEType,
	}, jsonResource(s.readComputersByTag))

	srv.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: TemplateMachineActivities,
		Name:        "Machine Activity Log",
		Description: "Activity history for a specific machine",
		MIMEType:    resourceMIMEType,
	}, jsonResource(s.readMachineActivities))
}

func jsonResource(fn resourceFunc) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := req.Params.URI
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      uri,
				MIMEType: resourceMIMEType,
				Text:     toIndentedJSON(fn(ctx, uri)),
			}},
		}, nil
	}
}

// InfrastructureSummary is the body of the summary resource.
type InfrastructureSummary struct {
	TotalMachines  int                  `json:"total_machines"`
	OnlineCount    int                  `json:"online_count"`
	OfflineCount   int                  `json:"offline_count"`
	ActiveAlerts   int                  `json:"active_alerts"`
	CriticalAlerts int                  `json:"critical_alerts"`
	WarningAlerts  int                  `json:"warning_alerts"`
	Distributions  inventory.Frequency  `json:"distributions"`
	AverageTags    float64              `json:"average_tags"`
	TagCategories  []inventory.Category `json:"tag_categories"`
	LastUpdated    string               `json:"last_updated"`
}

func (s *server) readSummary(ctx context.Context, _ string) any {
	var (
		computers []models.Machine
		alerts    []models.Alert
		offline   []models.Machine
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		computers, err = s.source.GetComputers(gctx, landscape.ComputerQuery{Limit: resourceFetchLimit})
		return err
	})
	g.Go(func() (err error) {
		alerts, err = s.source.GetAlerts(gctx)
		return err
	})
	g.Go(func() (err error) {
		offline, err = s.source.GetNotPingingComputers(gctx, offlineSinceMinutes, resourceFetchLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return errorBody{Error: err.Error()}
	}

	summary := InfrastructureSummary{
		TotalMachines: len(computers),
		OnlineCount:   len(computers) - len(offline),
		OfflineCount:  len(offline),
		ActiveAlerts:  len(alerts),
		Distributions: inventory.CountDistributions(computers),
		AverageTags:   inventory.AverageTags(computers),
		TagCategories: s.categorizer.Categorize(inventory.DistinctTags(computers)),
		LastUpdated:   "current",
	}
	for _, a := range alerts {
		switch a.Type {
		case "critical":
			summary.CriticalAlerts++
		case "warning":
			summary.WarningAlerts++
		}
	}
	if summary.TagCategories == nil {
		summary.TagCategories = []inventory.Category{}
	}
	return summary
}

func (s *server) readAlerts(ctx context.Context, _ string) any {
	alerts, err := s.source.GetAlerts(ctx)
	if err != nil {
		return errorBody{Error: err.Error()}
	}
	return struct {
		Alerts []models.Alert `json:"alerts"`
		Count  int            `json:"count"`
	}{nonNil(alerts), len(alerts)}
}

func (s *server) readOnline(ctx context.Context, _ string) any {
	computers, err := s.source.GetComputers(ctx, landscape.ComputerQuery{Limit: resourceFetchLimit})
	if err != nil {
		return errorBody{Error: err.Error()}
	}
	offline, err := s.source.GetNotPingingComputers(ctx, offlineSinceMinutes, resourceFetchLimit)
	if err != nil {
		return errorBody{Error: err.Error()}
	}

	offlineIDs := make(map[models.ID]struct{}, len(offline))
	for _, m := range offline {
		offlineIDs[m.ID] = struct{}{}
	}
	online := make([]models.Machine, 0, len(computers))
	for _, m := range computers {
		if _, gone := offlineIDs[m.ID]; !gone {
			online = append(online, m)
		}
	}
	return struct {
		OnlineComputers []models.Machine `json:"online_computers"`
		Count           int              `json:"count"`
	}{online, len(online)}
}

func (s *server) readOffline(ctx context.Context, _ string) any {
	offline, err := s.source.GetNotPingingComputers(ctx, offlineSinceMinutes, resourceFetchLimit)
	if err != nil {
		return errorBody{Error: err.Error()}
	}
	return struct {
		OfflineComputers []models.Machine `json:"offline_computers"`
		Count            int              `json:"count"`
	}{nonNil(offline), len(offline)}
}

func (s *server) readRecentActivities(ctx context.Context, _ string) any {
	activities, err := s.source.GetActivities(ctx, landscape.ActivityQuery{Limit: recentActivityLimit})
	if err != nil {
		return errorBody{Error: err.Error()}
	}
	return struct {
		RecentActivities []models.Activity `json:"recent_activities"`
		Count            int               `json:"count"`
	}{nonNil(activities), len(activities)}
}

// readSecurityUpdates keeps packages whose record mentions "security" or
// "update" anywhere. It is a text match, not a vulnerability feed.
func (s *server) readSecurityUpdates(ctx context.Context, _ string) any {
	packages, err := s.source.GetPackages(ctx, landscape.PackageQuery{Query: packageSearchAllQuery, Limit: resourceFetchLimit})
	if err != nil {
		return errorBody{Error: err.Error()}
	}

	updates := make([]models.Package, 0)
	for _, p := range packages {
		raw, err := json.Marshal(p)
		if err != nil {
			continue
		}
		lower := bytes.ToLower(raw)
		if bytes.Contains(lower, []byte("security")) || bytes.Contains(lower, []byte("update")) {
			updates = append(updates, p)
		}
	}
	return struct {
		SecurityUpdates []models.Package `json:"security_updates"`
		Count           int              `json:"count"`
	}{updates, len(updates)}
}

func (s *server) readComputersByTag(ctx context.Context, uri string) any {
	tag := templateValue(uri, computersPrefix)
	computers, err := s.source.GetComputers(ctx, landscape.ComputerQuery{Query: "tag:" + tag, Limit: resourceFetchLimit})
	if err != nil {
		return errorBody{Error: err.Error()}
	}
	return struct {
		Tag       string           `json:"tag"`
		Computers []models.Machine `json:"computers"`
		Count     int              `json:"count"`
	}{tag, nonNil(computers), len(computers)}
}

func (s *server) readMachineActivities(ctx context.Context, uri string) any {
	hostname := templateValue(uri, activitiesPrefix)
	result := s.activitiesForComputer(ctx, hostname, "", recentActivityLimit, 0)

	// A lookup miss is reported as the single activity entry, the same
	// shape clients already parse.
	var activities []any
	switch v := result.(type) {
	case []models.Activity:
		for _, a := range v {
			activities = append(activities, a)
		}
	default:
		activities = append(activities, v)
	}
	if activities == nil {
		activities = []any{}
	}
	return struct {
		Hostname   string `json:"hostname"`
		Activities []any  `json:"activities"`
		Count      int    `json:"count"`
	}{hostname, activities, len(activities)}
}

func templateValue(uri, prefix string) string {
	v := strings.TrimPrefix(uri, prefix)
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
