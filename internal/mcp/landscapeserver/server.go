package landscapeserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/landscape-community/landscape-mcp/internal/inventory"
	"github.com/landscape-community/landscape-mcp/internal/landscape"
	"github.com/landscape-community/landscape-mcp/internal/logger"
	"github.com/landscape-community/landscape-mcp/internal/telemetry"
)

// ServerName is the implementation name reported during initialization.
const ServerName = "landscape-api-smart"

// ServerVersion is the protocol-facing version of the tool surface. It is
// independent of the binary's build version.
const ServerVersion = "1.0.0"

const instructions = "Landscape MCP Server provides comprehensive infrastructure management through " +
	"tools (query/audit capabilities), resources (real-time data access), and prompts (guided analysis " +
	"workflows). Use prompts for complex infrastructure analysis tasks, resources for read-only data " +
	"context, and tools for specific queries and operations."

type server struct {
	source      landscape.Source
	metrics     *telemetry.Metrics
	categorizer *inventory.Categorizer
	now         func() time.Time
	log         zerolog.Logger
}

// Option configures the MCP server.
type Option func(*server)

// WithMetrics records tool calls.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *server) { s.metrics = m }
}

// WithCategorizer replaces the default tag categorizer used by the
// infrastructure summary.
func WithCategorizer(c *inventory.Categorizer) Option {
	return func(s *server) { s.categorizer = c }
}

// WithClock replaces time.Now for status derivation.
func WithClock(now func() time.Time) Option {
	return func(s *server) { s.now = now }
}

// NewServer constructs an MCP server exposing the Landscape API as tools,
// resources and prompts. Every handler is read-only.
func NewServer(source landscape.Source, opts ...Option) *mcp.Server {
	s := &server{
		source:      source,
		categorizer: inventory.DefaultCategorizer(),
		now:         time.Now,
		log:         logger.WithComponent("mcp"),
	}
	for _, opt := range opts {
		opt(s)
	}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, &mcp.ServerOptions{
		Instructions: instructions,
		HasTools:     true,
	})

	s.addTools(srv)
	s.addResources(srv)
	s.addPrompts(srv)

	return srv
}

// toJSON renders v compactly. Marshal failures are reported inline; every
// value passed here is built from decoded JSON.
func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("Error (%s): %s", landscape.KindInternal, err)
	}
	return string(b)
}

func toIndentedJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		b, _ = json.MarshalIndent(errorBody{Error: err.Error()}, "", "  ")
	}
	return string(b)
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *server) observe(ctx context.Context, tool string, start time.Time, failed bool) {
	d := time.Since(start)
	s.metrics.RecordToolCall(ctx, tool, d, failed)
	s.log.Debug().Str("tool", tool).Dur("duration", d).Bool("error", failed).Msg("tool call")
}
