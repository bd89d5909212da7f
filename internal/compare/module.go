package compare

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/HerbHall/ecotrace/internal/config"
	"github.com/HerbHall/ecotrace/internal/plugin"
	pkgcatalog "github.com/HerbHall/ecotrace/pkg/catalog"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin          = (*Module)(nil)
	_ plugin.MetricsProvider = (*Module)(nil)
)

// Module serves product comparisons over HTTP.
type Module struct {
	engine *Engine
	logger *zap.Logger

	comparisons *prometheus.CounterVec
}

// New creates a compare module backed by the embedded reference catalog.
func New() *Module {
	return NewWithCatalog(pkgcatalog.NewCatalog())
}

// NewWithCatalog creates a compare module backed by cat.
func NewWithCatalog(cat *pkgcatalog.Catalog) *Module {
	return &Module{
		engine: NewEngine(cat),
		logger: zap.NewNop(),
		comparisons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecotrace",
			Subsystem: "compare",
			Name:      "comparisons_total",
			Help:      "Comparisons served, by whether the selection size was valid.",
		}, []string{"valid"}),
	}
}

func (m *Module) Name() string    { return "compare" }
func (m *Module) Version() string { return "0.1.0" }

func (m *Module) Init(cfg *config.Config, logger *zap.Logger) error {
	m.logger = logger
	if cfg.IsSet("max_selection") {
		if n := cfg.GetInt("max_selection"); n != MaxSelection {
			return fmt.Errorf("compare: max_selection must be %d, got %d", MaxSelection, n)
		}
	}
	m.logger.Info("compare module initialized", zap.Int("max_selection", MaxSelection))
	return nil
}

func (m *Module) Start(_ context.Context) error {
	m.logger.Info("compare module started")
	return nil
}

func (m *Module) Stop() error {
	m.logger.Info("compare module stopped")
	return nil
}

// Collectors implements plugin.MetricsProvider.
func (m *Module) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.comparisons}
}

func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "", Handler: m.handleCompare},
		{Method: "GET", Path: "/available", Handler: m.handleAvailable},
		{Method: "POST", Path: "/selection/add", Handler: m.handleSelectionAdd},
		{Method: "POST", Path: "/selection/remove", Handler: m.handleSelectionRemove},
	}
}
