package catalog

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/HerbHall/ecotrace/internal/config"
	"github.com/HerbHall/ecotrace/internal/plugin"
	pkgcatalog "github.com/HerbHall/ecotrace/pkg/catalog"
)

const defaultFeaturedCount = 4

// Compile-time interface guards.
var (
	_ plugin.Plugin          = (*Module)(nil)
	_ plugin.MetricsProvider = (*Module)(nil)
)

// Module exposes the product catalog and its query engine over HTTP.
type Module struct {
	engine        *Engine
	logger        *zap.Logger
	featuredCount int

	queryResults *prometheus.HistogramVec
}

// New creates a catalog module backed by the embedded reference catalog.
func New() *Module {
	return NewWithCatalog(pkgcatalog.NewCatalog())
}

// NewWithCatalog creates a catalog module backed by cat.
func NewWithCatalog(cat *pkgcatalog.Catalog) *Module {
	return &Module{
		engine:        NewEngine(cat),
		logger:        zap.NewNop(),
		featuredCount: defaultFeaturedCount,
		queryResults: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ecotrace",
			Subsystem: "catalog",
			Name:      "query_results",
			Help:      "Number of products returned by catalog queries.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
		}, []string{"category"}),
	}
}

func (m *Module) Name() string    { return "catalog" }
func (m *Module) Version() string { return "0.1.0" }

func (m *Module) Init(cfg *config.Config, logger *zap.Logger) error {
	m.logger = logger
	if n := cfg.GetInt("featured_count"); n > 0 {
		m.featuredCount = n
	}

	// Fail fast on a broken embedded catalog rather than on the first request.
	products, err := m.engine.cat.Products()
	if err != nil {
		return err
	}
	m.logger.Info("catalog module initialized",
		zap.Int("products", len(products)),
		zap.Int("featured_count", m.featuredCount),
	)
	return nil
}

func (m *Module) Start(_ context.Context) error {
	m.logger.Info("catalog module started")
	return nil
}

func (m *Module) Stop() error {
	m.logger.Info("catalog module stopped")
	return nil
}

// Engine returns the module's query engine.
func (m *Module) Engine() *Engine {
	return m.engine
}

// Collectors implements plugin.MetricsProvider.
func (m *Module) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.queryResults}
}

func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "/products", Handler: m.handleQuery},
		{Method: "GET", Path: "/products.csv", Handler: m.handleExportCSV},
		{Method: "GET", Path: "/products/{id}", Handler: m.handleGetProduct},
		{Method: "GET", Path: "/featured", Handler: m.handleFeatured},
		{Method: "GET", Path: "/categories", Handler: m.handleCategories},
		{Method: "GET", Path: "/sort-options", Handler: m.handleSortOptions},
		{Method: "POST", Path: "/criteria/reset", Handler: m.handleResetCriteria},
	}
}
