package dashboard

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// HealthBody reports liveness and the age of the cached snapshot.
type HealthBody struct {
	Status    string     `json:"status" example:"ok" doc:"Health status"`
	Machines  int        `json:"machines" doc:"Machines in the cached snapshot"`
	FetchedAt *time.Time `json:"fetched_at,omitempty" doc:"When the cached snapshot was fetched"`
}

// PingBody is the ping response.
type PingBody struct {
	Pong bool `json:"pong" example:"true"`
}

// VersionBody carries build information.
type VersionBody struct {
	Version   string `json:"version" example:"v1.0.0" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc123d" doc:"Git commit SHA"`
	BuildTime string `json:"build_time" example:"2026-01-29T14:30:00Z" doc:"Build timestamp"`
}

// RegisterCommonEndpoints registers health, ping and version. Health never
// triggers a fetch.
func RegisterCommonEndpoints(api huma.API, pathPrefix string, inv Inventory, versionInfo *VersionBody) {
	suffix := strings.ReplaceAll(pathPrefix, "/", "-")

	huma.Register(api, huma.Operation{
		OperationID: "get-health" + suffix,
		Method:      http.MethodGet,
		Path:        pathPrefix + "/health",
		Summary:     "Health check",
		Description: "Check the health status of the dashboard",
		Tags:        []string{"health"},
	}, func(_ context.Context, _ *struct{}) (*Response[HealthBody], error) {
		body := HealthBody{Status: "ok"}
		if snap := inv.Peek(); snap != nil {
			fetched := snap.FetchedAt
			body.Machines = len(snap.Machines)
			body.FetchedAt = &fetched
		}
		return &Response[HealthBody]{Body: body}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "ping" + suffix,
		Method:      http.MethodGet,
		Path:        pathPrefix + "/ping",
		Summary:     "Ping",
		Tags:        []string{"ping"},
	}, func(_ context.Context, _ *struct{}) (*Response[PingBody], error) {
		return &Response[PingBody]{Body: PingBody{Pong: true}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-version" + suffix,
		Method:      http.MethodGet,
		Path:        pathPrefix + "/version",
		Summary:     "Get version information",
		Tags:        []string{"version"},
	}, func(_ context.Context, _ *struct{}) (*Response[VersionBody], error) {
		return &Response[VersionBody]{Body: *versionInfo}, nil
	})
}
