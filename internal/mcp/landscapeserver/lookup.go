package landscapeserver

import (
	"context"
	"fmt"

	"github.com/landscape-community/landscape-mcp/internal/landscape"
	"github.com/landscape-community/landscape-mcp/pkg/models"
)

type packageNotInstalled struct {
	Hostname string `json:"hostname"`
	Package  string `json:"package"`
	Status   string `json:"status"`
}

type packageInstalled struct {
	Hostname string `json:"hostname"`
	Package  string `json:"package"`
	Version  string `json:"version"`
	Summary  string `json:"summary"`
}

// resolveComputer finds the id of the first computer matching hostname. A
// non-nil errorBody reports a lookup miss; err reports a remote failure.
func (s *server) resolveComputer(ctx context.Context, hostname string) (models.ID, *errorBody, error) {
	computers, err := s.source.GetComputers(ctx, landscape.ComputerQuery{Query: hostname, Limit: 1})
	if err != nil {
		return "", nil, err
	}
	if len(computers) == 0 {
		return "", &errorBody{Error: fmt.Sprintf("Computer %s not found", hostname)}, nil
	}
	id := computers[0].ID
	if id.IsZero() {
		return "", &errorBody{Error: fmt.Sprintf("Could not extract computer ID for %s", hostname)}, nil
	}
	return id, nil, nil
}

// packageOnComputer looks up one package on one computer in two calls:
// hostname to id, then a package search scoped to that id.
func (s *server) packageOnComputer(ctx context.Context, hostname, pkg string) any {
	id, miss, err := s.resolveComputer(ctx, hostname)
	if err != nil {
		return queryFailed(err)
	}
	if miss != nil {
		return miss
	}

	packages, err := s.source.GetPackages(ctx, landscape.PackageQuery{
		Search: pkg,
		Query:  "id:" + id.String(),
		Limit:  1,
	})
	if err != nil {
		return queryFailed(err)
	}
	if len(packages) == 0 {
		return packageNotInstalled{Hostname: hostname, Package: pkg, Status: "not_installed"}
	}

	found := packages[0]
	out := packageInstalled{
		Hostname: hostname,
		Package:  found.Name,
		Version:  found.Version,
		Summary:  found.Summary,
	}
	if out.Package == "" {
		out.Package = pkg
	}
	if out.Version == "" {
		out.Version = "unknown"
	}
	return out
}

// activitiesForComputer returns activities, scoped to hostname's computer
// when hostname is set. Lookup misses and remote failures are returned as
// an error object rather than an error.
func (s *server) activitiesForComputer(ctx context.Context, hostname, query string, limit, offset int) any {
	q := query
	if hostname != "" {
		id, miss, err := s.resolveComputer(ctx, hostname)
		if err != nil {
			return queryFailed(err)
		}
		if miss != nil {
			return miss
		}
		q = "computer:id:" + id.String()
		if query != "" {
			q += " " + query
		}
	}

	activities, err := s.source.GetActivities(ctx, landscape.ActivityQuery{Query: q, Limit: limit, Offset: offset})
	if err != nil {
		return queryFailed(err)
	}
	return activities
}

func queryFailed(err error) *errorBody {
	return &errorBody{Error: "Query failed: " + err.Error()}
}
