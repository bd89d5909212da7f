package plugin

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/HerbHall/ecotrace/internal/config"
)

// Route represents an HTTP route exposed by a plugin.
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Plugin defines the interface that all EcoTrace modules must implement.
type Plugin interface {
	// Name returns the plugin's unique identifier (e.g., "catalog", "compare").
	Name() string

	// Version returns the plugin's semantic version.
	Version() string

	// Init initializes the plugin with its configuration subtree and logger.
	Init(config *config.Config, logger *zap.Logger) error

	// Start begins the plugin's background operations.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the plugin.
	Stop() error

	// Routes returns the HTTP routes this plugin exposes.
	Routes() []Route
}

// MetricsProvider is implemented by plugins that export Prometheus collectors.
// The server registers them once at startup.
type MetricsProvider interface {
	Collectors() []prometheus.Collector
}
