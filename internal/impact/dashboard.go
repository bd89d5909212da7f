// Package impact serves the personal impact dashboard: canned history and
// scenarios, plus the products the user tracks.
package impact

import (
	"context"
	"fmt"
	"math"

	pkgcatalog "github.com/HerbHall/ecotrace/pkg/catalog"
	pkgimpact "github.com/HerbHall/ecotrace/pkg/impact"
	"github.com/HerbHall/ecotrace/pkg/models"
)

// dateLayout formats tracker dates the same way as the canned data.
const dateLayout = "2006-01-02"

// TrackedDetail is a tracked product joined with its catalog record.
type TrackedDetail struct {
	EntryID     string         `json:"entryId,omitempty"`
	Product     models.Product `json:"product"`
	Quantity    int            `json:"quantity"`
	AddedAt     string         `json:"addedAt"`
	CarbonTotal float64        `json:"carbonTotal"`
}

// Summary is derived from the monthly history.
type Summary struct {
	LatestMonth       string  `json:"latestMonth,omitempty"`
	LatestCarbonSaved float64 `json:"latestCarbonSaved"`
	CarbonDelta       float64 `json:"carbonDelta"`
	EcoScoreDelta     int     `json:"ecoScoreDelta"`
	TrackedCarbon     float64 `json:"trackedCarbon"`
}

// Dashboard is everything the impact page renders.
type Dashboard struct {
	Stats         pkgimpact.Stats           `json:"stats"`
	MonthlyImpact []pkgimpact.MonthlyImpact `json:"monthlyImpact"`
	Scenarios     []pkgimpact.Scenario      `json:"scenarios"`
	Tracked       []TrackedDetail           `json:"tracked"`
	Summary       Summary                   `json:"summary"`
}

// Service joins the dashboard data, the catalog and the tracker store.
type Service struct {
	cat     *pkgcatalog.Catalog
	source  *pkgimpact.Source
	tracker TrackerRepository
}

// NewService creates an impact service.
func NewService(cat *pkgcatalog.Catalog, source *pkgimpact.Source, tracker TrackerRepository) *Service {
	return &Service{cat: cat, source: source, tracker: tracker}
}

// Dashboard assembles the dashboard. The sample tracked products come
// first, followed by tracker entries oldest first. Entries whose product is
// not in the catalog are dropped.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	data, err := s.source.Data()
	if err != nil {
		return Dashboard{}, err
	}
	entries, err := s.tracker.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	tracked := make([]TrackedDetail, 0, len(data.TrackedProducts)+len(entries))
	for _, tp := range data.TrackedProducts {
		d, ok, err := s.detail("", tp.ProductID, tp.Quantity, tp.AddedAt)
		if err != nil {
			return Dashboard{}, err
		}
		if ok {
			tracked = append(tracked, d)
		}
	}
	for _, e := range entries {
		d, ok, err := s.detail(e.ID, e.ProductID, e.Quantity, e.AddedAt.Format(dateLayout))
		if err != nil {
			return Dashboard{}, err
		}
		if ok {
			tracked = append(tracked, d)
		}
	}

	return Dashboard{
		Stats:         data.Stats,
		MonthlyImpact: data.MonthlyImpact,
		Scenarios:     data.Scenarios,
		Tracked:       tracked,
		Summary:       Summarize(data.MonthlyImpact, tracked),
	}, nil
}

func (s *Service) detail(entryID, productID string, quantity int, addedAt string) (TrackedDetail, bool, error) {
	p, ok, err := s.cat.Find(productID)
	if err != nil || !ok {
		return TrackedDetail{}, false, err
	}
	return TrackedDetail{
		EntryID:     entryID,
		Product:     p,
		Quantity:    quantity,
		AddedAt:     addedAt,
		CarbonTotal: round2(p.CarbonFootprint * float64(quantity)),
	}, true, nil
}

// Summarize derives the latest-month figures and month-over-month deltas.
// With fewer than two months the deltas are zero.
func Summarize(history []pkgimpact.MonthlyImpact, tracked []TrackedDetail) Summary {
	var s Summary
	for _, d := range tracked {
		s.TrackedCarbon += d.CarbonTotal
	}
	s.TrackedCarbon = round2(s.TrackedCarbon)

	if len(history) == 0 {
		return s
	}
	latest := history[len(history)-1]
	s.LatestMonth = latest.Month
	s.LatestCarbonSaved = latest.CarbonSaved
	if len(history) > 1 {
		prev := history[len(history)-2]
		s.CarbonDelta = round2(latest.CarbonSaved - prev.CarbonSaved)
		s.EcoScoreDelta = latest.EcoScore - prev.EcoScore
	}
	return s
}

// Entries returns the tracker entries.
func (s *Service) Entries(ctx context.Context) ([]Entry, error) {
	return s.tracker.List(ctx)
}

// Track adds a catalog product to the tracker.
func (s *Service) Track(ctx context.Context, productID string, quantity int) (Entry, error) {
	if quantity < 1 {
		return Entry{}, ErrInvalidQuantity
	}
	_, ok, err := s.cat.Find(productID)
	if err != nil {
		return Entry{}, err
	}
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownProduct, productID)
	}
	return s.tracker.Add(ctx, productID, quantity)
}

// Untrack removes a tracker entry.
func (s *Service) Untrack(ctx context.Context, id string) error {
	return s.tracker.Remove(ctx, id)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
