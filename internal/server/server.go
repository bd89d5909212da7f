package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/HerbHall/ecotrace/internal/config"
	"github.com/HerbHall/ecotrace/internal/plugin"
	"github.com/HerbHall/ecotrace/internal/version"
)

// Options holds the HTTP server settings.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	RateLimit    rate.Limit // requests per second per client; 0 disables limiting
	RateBurst    int
}

// OptionsFromConfig reads the server.* keys.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Addr:         net.JoinHostPort(cfg.GetString("server.host"), cfg.GetString("server.port")),
		ReadTimeout:  cfg.GetDuration("server.read_timeout"),
		WriteTimeout: cfg.GetDuration("server.write_timeout"),
		IdleTimeout:  cfg.GetDuration("server.idle_timeout"),
		RateLimit:    rate.Limit(cfg.GetFloat64("server.rate_limit.rps")),
		RateBurst:    cfg.GetInt("server.rate_limit.burst"),
	}
}

// Server is the main EcoTrace server.
type Server struct {
	httpServer *http.Server
	registry   *plugin.Registry
	logger     *zap.Logger
	mux        *http.ServeMux
	metrics    *httpMetrics
	promReg    *prometheus.Registry
}

// New creates a new Server instance. Plugins must be initialized before
// New is called so their routes and collectors are known.
func New(opts Options, reg *plugin.Registry, logger *zap.Logger) *Server {
	mux := http.NewServeMux()
	promReg := prometheus.NewRegistry()

	s := &Server{
		registry: reg,
		logger:   logger,
		mux:      mux,
		metrics:  newHTTPMetrics(),
		promReg:  promReg,
	}

	s.registerCollectors()
	s.registerCoreRoutes()
	s.mountPluginRoutes()

	var handler http.Handler = s.instrument(mux)
	if opts.RateLimit > 0 {
		handler = newClientLimiter(opts.RateLimit, opts.RateBurst, logger).middleware(handler)
	}

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      handler,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  opts.IdleTimeout,
	}

	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// registerCollectors registers runtime, HTTP, and plugin collectors.
func (s *Server) registerCollectors() {
	s.promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	s.promReg.MustRegister(version.Collector())
	s.promReg.MustRegister(s.metrics.collectors()...)
	for _, c := range s.registry.Collectors() {
		if err := s.promReg.Register(c); err != nil {
			s.logger.Warn("failed to register plugin collector", zap.Error(err))
		}
	}
}

// registerCoreRoutes sets up routes that are always available.
func (s *Server) registerCoreRoutes() {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/plugins", s.handlePlugins)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.promReg, promhttp.HandlerOpts{}))
}

// mountPluginRoutes registers all plugin routes under /api/v1/{plugin}/.
func (s *Server) mountPluginRoutes() {
	allRoutes := s.registry.AllRoutes()
	for pluginName, routes := range allRoutes {
		for _, route := range routes {
			pattern := fmt.Sprintf("%s /api/v1/%s%s", route.Method, pluginName, route.Path)
			s.mux.HandleFunc(pattern, route.Handler)
			s.logger.Debug("mounted route",
				zap.String("plugin", pluginName),
				zap.String("pattern", pattern),
			)
		}
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-EcoTrace-Version", version.Short())
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"service": "ecotrace",
		"version": version.Map(),
	})
}

// handlePlugins returns the list of registered plugins.
func (s *Server) handlePlugins(w http.ResponseWriter, r *http.Request) {
	plugins := s.registry.All()
	type pluginResponse struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Enabled bool   `json:"enabled"`
	}
	info := make([]pluginResponse, 0, len(plugins))
	for _, p := range plugins {
		info = append(info, pluginResponse{
			Name:    p.Name(),
			Version: p.Version(),
			Enabled: s.registry.Enabled(p.Name()),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-EcoTrace-Version", version.Short())
	_ = json.NewEncoder(w).Encode(info)
}
