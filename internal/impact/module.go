package impact

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/HerbHall/ecotrace/internal/config"
	"github.com/HerbHall/ecotrace/internal/plugin"
	"github.com/HerbHall/ecotrace/internal/store"
	pkgcatalog "github.com/HerbHall/ecotrace/pkg/catalog"
	pkgimpact "github.com/HerbHall/ecotrace/pkg/impact"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin          = (*Module)(nil)
	_ plugin.MetricsProvider = (*Module)(nil)
)

// Module serves the impact dashboard and the product tracker.
type Module struct {
	store   *store.SQLiteStore
	cat     *pkgcatalog.Catalog
	now     func() time.Time
	logger  *zap.Logger
	service *Service

	trackerOps *prometheus.CounterVec
}

// New creates an impact module that keeps tracker entries in st. The
// caller owns st and closes it after Stop.
func New(st *store.SQLiteStore) *Module {
	return &Module{
		store:  st,
		cat:    pkgcatalog.NewCatalog(),
		now:    time.Now,
		logger: zap.NewNop(),
		trackerOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecotrace",
			Subsystem: "impact",
			Name:      "tracker_operations_total",
			Help:      "Tracker add and remove operations by outcome.",
		}, []string{"op", "result"}),
	}
}

// WithClock overrides the time source used to stamp tracker entries.
func (m *Module) WithClock(now func() time.Time) *Module {
	m.now = now
	return m
}

func (m *Module) Name() string    { return "impact" }
func (m *Module) Version() string { return "0.1.0" }

func (m *Module) Init(_ *config.Config, logger *zap.Logger) error {
	m.logger = logger
	if m.store == nil {
		return errors.New("impact: no store configured")
	}

	tracker, err := NewSQLiteTracker(context.Background(), m.store, m.now)
	if err != nil {
		return err
	}
	m.service = NewService(m.cat, pkgimpact.NewSource(), tracker)

	m.logger.Info("impact module initialized", zap.String("store", m.store.Path()))
	return nil
}

func (m *Module) Start(_ context.Context) error {
	m.logger.Info("impact module started")
	return nil
}

func (m *Module) Stop() error {
	m.logger.Info("impact module stopped")
	return nil
}

// Service returns the module's impact service. It is nil before Init.
func (m *Module) Service() *Service {
	return m.service
}

// Collectors implements plugin.MetricsProvider.
func (m *Module) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.trackerOps}
}

func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "/dashboard", Handler: m.handleDashboard},
		{Method: "GET", Path: "/tracked", Handler: m.handleListTracked},
		{Method: "POST", Path: "/tracked", Handler: m.handleAddTracked},
		{Method: "DELETE", Path: "/tracked/{id}", Handler: m.handleRemoveTracked},
	}
}
