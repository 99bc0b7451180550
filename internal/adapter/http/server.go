package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/storm-data-conditions/internal/domain"
	"github.com/couchcryptid/storm-data-conditions/internal/observability"
)

// ConditionsService builds reports for a point or a location provider.
type ConditionsService interface {
	sharedobs.ReadinessChecker
	Conditions(ctx context.Context, at domain.Coordinates) (domain.Report, error)
	ConditionsFor(ctx context.Context, provider domain.LocationProvider) (domain.Report, error)
}

// Deps are the collaborators behind the conditions routes.
type Deps struct {
	Service ConditionsService
	// Geocoder enables ?q=<place> lookups. Nil disables them.
	Geocoder domain.Geocoder
	// DefaultLocation is used by the HTML page when the request names no point.
	DefaultLocation *domain.Coordinates
	Metrics         *observability.Metrics
}

// Server exposes the conditions API and page plus health, readiness, and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /, /api/v1/conditions, /healthz,
// /readyz, and /metrics routes.
func NewServer(addr string, deps Deps, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(deps.Service))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /api/v1/conditions", withRequestID(http.HandlerFunc(s.handleConditionsAPI)))
	mux.Handle("GET /{$}", withRequestID(http.HandlerFunc(s.handlePage)))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
