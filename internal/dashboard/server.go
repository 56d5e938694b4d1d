package dashboard

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/cors"

	"github.com/landscape-community/landscape-mcp/internal/logger"
	"github.com/landscape-community/landscape-mcp/internal/telemetry"
)

// TrailingSlashMiddleware redirects API requests with a trailing slash to
// their canonical form. The HTML view at / is left alone.
func TrailingSlashMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		isAPIRoute := strings.HasPrefix(r.URL.Path, APIPrefix+"/") ||
			r.URL.Path == "/metrics" ||
			strings.HasPrefix(r.URL.Path, "/docs")

		if isAPIRoute && r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(r.URL.Path, "/")

			// 308 preserves the method for POST /v0/refresh/
			http.Redirect(w, r, newURL.String(), http.StatusPermanentRedirect)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Server is the dashboard HTTP server.
type Server struct {
	humaAPI huma.API
	mux     *http.ServeMux
	server  *http.Server
}

// HumaAPI returns the Huma API instance.
func (s *Server) HumaAPI() huma.API {
	return s.humaAPI
}

// Handler returns the full middleware stack, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// NewServer builds the dashboard server listening on addr.
func NewServer(addr string, inv Inventory, metrics *telemetry.Metrics, versionInfo *VersionBody, opts ...Option) *Server {
	mux := http.NewServeMux()
	api := NewHumaAPI(mux, inv, metrics, versionInfo, opts...)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Type", "Content-Length", "Content-Disposition"},
		AllowCredentials: false, // Must be false when AllowedOrigins is "*"
		MaxAge:           86400,
	})

	// Order: TrailingSlash -> CORS -> Mux
	handler := TrailingSlashMiddleware(corsHandler.Handler(mux))

	return &Server{
		humaAPI: api,
		mux:     mux,
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start listens until the server is shut down.
func (s *Server) Start() error {
	log := logger.WithComponent("dashboard")
	log.Info().Str("address", s.server.Addr).Msg("dashboard server starting")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
