package landscape

import (
	"context"

	"github.com/landscape-community/landscape-mcp/pkg/models"
)

//go:generate mockgen -destination=mock_landscape.go -package=landscape github.com/landscape-community/landscape-mcp/internal/landscape Source

// Source is the read-only slice of the Landscape API used by the dashboard
// and the MCP server.
type Source interface {
	GetComputers(ctx context.Context, q ComputerQuery) ([]models.Machine, error)
	GetPackages(ctx context.Context, q PackageQuery) ([]models.Package, error)
	GetAlerts(ctx context.Context) ([]models.Alert, error)
	GetNotPingingComputers(ctx context.Context, sinceMinutes, limit int) ([]models.Machine, error)
	GetActivities(ctx context.Context, q ActivityQuery) ([]models.Activity, error)
}

// ComputerQuery selects computers. Zero-valued fields are not sent.
type ComputerQuery struct {
	Query           string
	Limit           int
	Offset          int
	WithAnnotations bool
}

// PackageQuery selects packages across the computers matched by Query.
type PackageQuery struct {
	Query  string
	Search string
	Limit  int
	Offset int
}

// ActivityQuery selects activities.
type ActivityQuery struct {
	Query  string
	Limit  int
	Offset int
}
