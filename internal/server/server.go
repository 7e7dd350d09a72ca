// Package server exposes the collector over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"
	"golang.org/x/net/netutil"

	"git.home.luguber.info/inful/jira-exporter/internal/collector"
	"git.home.luguber.info/inful/jira-exporter/internal/config"
	ferrors "git.home.luguber.info/inful/jira-exporter/internal/foundation/errors"
	"git.home.luguber.info/inful/jira-exporter/internal/logfields"
	"git.home.luguber.info/inful/jira-exporter/internal/metrics"
	"git.home.luguber.info/inful/jira-exporter/internal/server/middleware"
	"git.home.luguber.info/inful/jira-exporter/internal/version"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 30 * time.Second

// SnapshotSource reports the last published snapshot for the health endpoint.
type SnapshotSource interface {
	Cached() *collector.Snapshot
}

// Server serves the metrics endpoint, a landing page and a liveness probe.
type Server struct {
	cfg        config.ServerConfig
	logger     *slog.Logger
	router     *chi.Mux
	httpServer *http.Server
}

// New wires the routes. Scrapes at cfg.MetricsPath gather from gatherer.
func New(cfg config.ServerConfig, gatherer prom.Gatherer, source SnapshotSource, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{cfg: cfg, logger: logger, router: chi.NewRouter()}

	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Chain(logger, ferrors.NewHTTPErrorAdapter(logger)))

	s.router.Get("/", s.handleLanding)
	s.router.Get("/healthz", handleHealth(source))
	s.router.Method(http.MethodGet, cfg.MetricsPath, metrics.HTTPHandler(gatherer, logger))

	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe binds the configured address and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return ferrors.RuntimeError("failed to listen").
			WithCause(err).
			WithContext("addr", s.httpServer.Addr).
			Build()
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down gracefully.
// When MaxConnections is set, further connections wait in the accept queue.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConnections)
	}
	s.logger.Info("Serving metrics",
		slog.String("addr", ln.Addr().String()),
		logfields.Path(s.cfg.MetricsPath))

	errCh := make(chan error, 1)
	go func() { errCh <- s.httpServer.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()
	s.logger.Info("Shutting down HTTP server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

var landingTemplate = template.Must(template.New("landing").Parse(`<!DOCTYPE html>
<html>
<head><title>Jira Exporter</title></head>
<body>
<h1>Jira Exporter</h1>
<p>Version {{.Version}}</p>
<p><a href="{{.MetricsPath}}">Metrics</a></p>
</body>
</html>
`))

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = landingTemplate.Execute(w, struct{ Version, MetricsPath string }{version.Version, s.cfg.MetricsPath})
}

type healthResponse struct {
	Status         string     `json:"status"`
	Version        string     `json:"version"`
	LastRefresh    *time.Time `json:"last_refresh,omitempty"`
	RefreshID      string     `json:"refresh_id,omitempty"`
	Series         int        `json:"series"`
	FailedProjects []string   `json:"failed_projects,omitempty"`
}

func handleHealth(source SnapshotSource) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := healthResponse{Status: "ok", Version: version.Version}
		if source != nil {
			if snap := source.Cached(); snap != nil {
				updated := snap.UpdatedAt
				resp.LastRefresh = &updated
				resp.RefreshID = snap.RefreshID
				resp.Series = snap.Series()
				resp.FailedProjects = snap.FailedProjects
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
