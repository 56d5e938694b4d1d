package landscapeserver

import (
	"encoding/json"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/cors"
)

// MCPPath is where the streamable HTTP transport is mounted.
const MCPPath = "/mcp"

// HealthBody is returned by /health.
type HealthBody struct {
	Status        string `json:"status"`
	Server        string `json:"server"`
	LandscapeAPI  string `json:"landscape_api"`
	Version       string `json:"version"`
	ServerVersion string `json:"server_version,omitempty"`
}

// InfoBody is returned by /.
type InfoBody struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// NewHTTPHandler serves srv over the streamable HTTP transport together
// with health and info endpoints. apiURI is reported by /health.
func NewHTTPHandler(srv *mcp.Server, apiURI, buildVersion string) http.Handler {
	mux := http.NewServeMux()

	mux.Handle(MCPPath, mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return srv
	}, &mcp.StreamableHTTPOptions{}))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, HealthBody{
			Status:        "healthy",
			Server:        "landscape-mcp-http",
			LandscapeAPI:  apiURI,
			Version:       ServerVersion,
			ServerVersion: buildVersion,
		})
	})

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, InfoBody{
			Name:    "Landscape MCP HTTP Server",
			Version: ServerVersion,
			Endpoints: map[string]string{
				"mcp":    MCPPath,
				"health": "/health",
			},
		})
	})

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Mcp-Session-Id"},
	}).Handler(mux)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
