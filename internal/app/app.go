// Package app wires configuration, the Landscape client and the servers
// into runnable processes.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/landscape-community/landscape-mcp/internal/config"
	"github.com/landscape-community/landscape-mcp/internal/dashboard"
	"github.com/landscape-community/landscape-mcp/internal/inventory"
	"github.com/landscape-community/landscape-mcp/internal/landscape"
	"github.com/landscape-community/landscape-mcp/internal/logger"
	"github.com/landscape-community/landscape-mcp/internal/mcp/landscapeserver"
	"github.com/landscape-community/landscape-mcp/internal/telemetry"
	"github.com/landscape-community/landscape-mcp/internal/version"
	"github.com/landscape-community/landscape-mcp/pkg/models"
)

const shutdownTimeout = 10 * time.Second

// Options selects which servers Run starts.
type Options struct {
	Dashboard bool
	MCPHTTP   bool
}

// NewCategorizer builds the tag categorizer, falling back to the built-in
// allowlists for any list left empty.
func NewCategorizer(cfg *config.Config) *inventory.Categorizer {
	teams, locations := cfg.TeamTags, cfg.LocationTags
	if len(teams) == 0 {
		teams = inventory.DefaultTeams
	}
	if len(locations) == 0 {
		locations = inventory.DefaultLocations
	}
	return inventory.NewCategorizer(teams, locations)
}

// FetchMachines returns the snapshot fetch for the dashboard: one page of
// computers matching the configured query, with annotations.
func FetchMachines(source landscape.Source, cfg config.DashboardConfig) inventory.FetchFunc {
	return func(ctx context.Context) ([]models.Machine, error) {
		return source.GetComputers(ctx, landscape.ComputerQuery{
			Query:           cfg.FetchQuery,
			Limit:           cfg.FetchLimit,
			WithAnnotations: true,
		})
	}
}

// NewInventory builds the snapshot cache the dashboard reads from.
func NewInventory(source landscape.Source, cfg config.DashboardConfig, metrics *telemetry.Metrics) *inventory.Cache {
	log := logger.WithComponent("inventory")
	return inventory.NewCache(FetchMachines(source, cfg),
		inventory.WithTTL(cfg.CacheTTL),
		inventory.WithFetchHook(func(d time.Duration, err error) {
			metrics.RecordSnapshotFetch(context.Background(), d, err)
			if err != nil {
				log.Warn().Err(err).Dur("duration", d).Msg("snapshot fetch failed")
				return
			}
			log.Debug().Dur("duration", d).Msg("snapshot fetched")
		}),
	)
}

// NewMCPServer builds the MCP server over source.
func NewMCPServer(cfg *config.Config, source landscape.Source, metrics *telemetry.Metrics) *mcp.Server {
	return landscapeserver.NewServer(source,
		landscapeserver.WithMetrics(metrics),
		landscapeserver.WithCategorizer(NewCategorizer(cfg)),
	)
}

func versionInfo() *dashboard.VersionBody {
	return &dashboard.VersionBody{
		Version:   version.Version,
		GitCommit: version.GitCommit,
		BuildTime: version.BuildDate,
	}
}

// ServeStdio runs the MCP server over stdin/stdout until the client
// disconnects or ctx is cancelled. Logs must not go to stdout here.
func ServeStdio(ctx context.Context, cfg *config.Config, source landscape.Source) error {
	log := logger.WithComponent("mcp")
	log.Info().Str("version", version.Version).Msg("serving MCP over stdio")

	srv := NewMCPServer(cfg, source, nil)
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp stdio server: %w", err)
	}
	return nil
}

type server interface {
	Start() error
	Shutdown(ctx context.Context) error
}

type httpServer struct {
	name string
	*http.Server
}

func (s httpServer) Start() error {
	log := logger.WithComponent(s.name)
	log.Info().Str("address", s.Addr).Msg("server starting")
	return s.ListenAndServe()
}

// Run starts the selected servers and blocks until ctx is cancelled, a
// termination signal arrives or a server fails.
func Run(ctx context.Context, cfg *config.Config, source landscape.Source, opts Options) error {
	if !opts.Dashboard && !opts.MCPHTTP {
		return errors.New("no server selected")
	}
	log := logger.WithComponent("app")
	log.Info().Str("version", version.Version).Str("commit", version.GitCommit).Msg("starting landscape-mcp")

	shutdownTelemetry, metrics, err := telemetry.InitMetrics(version.Version)
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	var servers []server
	if opts.Dashboard {
		servers = append(servers, dashboard.NewServer(
			cfg.Dashboard.Address,
			NewInventory(source, cfg.Dashboard, metrics),
			metrics,
			versionInfo(),
			dashboard.WithCategorizer(NewCategorizer(cfg)),
		))
	}
	if opts.MCPHTTP {
		handler := landscapeserver.NewHTTPHandler(NewMCPServer(cfg, source, metrics), cfg.Landscape.URI, version.Version)
		servers = append(servers, httpServer{
			name: "mcp",
			Server: &http.Server{
				Addr:              cfg.MCP.Address(),
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			},
		})
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, len(servers))
	for _, s := range servers {
		go func() {
			if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case runErr = <-errCh:
		log.Error().Err(runErr).Msg("server failed")
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, s := range servers {
		if err := s.Shutdown(sctx); err != nil {
			log.Warn().Err(err).Msg("server forced to shutdown")
		}
	}

	log.Info().Msg("server exiting")
	return runErr
}
