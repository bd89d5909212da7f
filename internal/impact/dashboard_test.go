package impact

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HerbHall/ecotrace/internal/testutil"
	pkgcatalog "github.com/HerbHall/ecotrace/pkg/catalog"
	pkgimpact "github.com/HerbHall/ecotrace/pkg/impact"
)

func newTestService(t *testing.T, clock *testutil.Clock) (*Service, *SQLiteTracker) {
	t.Helper()
	tracker, err := NewSQLiteTracker(context.Background(), testutil.NewStore(t), clock.Now)
	require.NoError(t, err)
	return NewService(pkgcatalog.NewCatalog(), pkgimpact.NewSource(), tracker), tracker
}

func TestDashboard_SampleData(t *testing.T) {
	svc, _ := newTestService(t, testutil.NewClock())

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 14, d.Stats.ProductsTracked)
	assert.Len(t, d.MonthlyImpact, 6)
	assert.Len(t, d.Scenarios, 3)

	require.Len(t, d.Tracked, 5)
	assert.Equal(t, "1", d.Tracked[0].Product.ID)
	assert.Equal(t, "Organic Cotton T-Shirt", d.Tracked[0].Product.Name)
	assert.Equal(t, 2, d.Tracked[0].Quantity)
	assert.Equal(t, "2024-01-15", d.Tracked[0].AddedAt)
	assert.InDelta(t, 4.2, d.Tracked[0].CarbonTotal, 0.001)
	assert.Empty(t, d.Tracked[0].EntryID)

	assert.Equal(t, "Jun", d.Summary.LatestMonth)
	assert.InDelta(t, 45.2, d.Summary.LatestCarbonSaved, 0.001)
	assert.InDelta(t, 6.7, d.Summary.CarbonDelta, 0.001)
	assert.Equal(t, 1, d.Summary.EcoScoreDelta)
	assert.InDelta(t, 6.9, d.Summary.TrackedCarbon, 0.001)
}

func TestDashboard_IncludesTrackerEntries(t *testing.T) {
	clock := testutil.NewClock(time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	svc, _ := newTestService(t, clock)
	ctx := context.Background()

	e, err := svc.Track(ctx, "12", 1)
	require.NoError(t, err)

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	require.Len(t, d.Tracked, 6)

	last := d.Tracked[5]
	assert.Equal(t, e.ID, last.EntryID)
	assert.Equal(t, "12", last.Product.ID)
	assert.Equal(t, "2025-06-02", last.AddedAt)
	assert.InDelta(t, 4.5, last.CarbonTotal, 0.001)
}

func TestDashboard_DropsMissingProducts(t *testing.T) {
	svc, tracker := newTestService(t, testutil.NewClock())
	ctx := context.Background()

	// The repository does not know the catalog, so it accepts any id.
	_, err := tracker.Add(ctx, "retired-product", 1)
	require.NoError(t, err)

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Len(t, d.Tracked, 5)
	for _, td := range d.Tracked {
		assert.NotEqual(t, "retired-product", td.Product.ID)
	}
}

func TestTrack_Validation(t *testing.T) {
	svc, _ := newTestService(t, testutil.NewClock())
	ctx := context.Background()

	_, err := svc.Track(ctx, "does-not-exist", 1)
	assert.True(t, errors.Is(err, ErrUnknownProduct), "got %v", err)

	_, err = svc.Track(ctx, "1", 0)
	assert.True(t, errors.Is(err, ErrInvalidQuantity), "got %v", err)

	entries, err := svc.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUntrack(t *testing.T) {
	svc, _ := newTestService(t, testutil.NewClock())
	ctx := context.Background()

	e, err := svc.Track(ctx, "3", 2)
	require.NoError(t, err)
	require.NoError(t, svc.Untrack(ctx, e.ID))
	assert.ErrorIs(t, svc.Untrack(ctx, e.ID), ErrNotFound)
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		history []pkgimpact.MonthlyImpact
		want    Summary
	}{
		{
			name: "empty",
			want: Summary{},
		},
		{
			name:    "single month",
			history: []pkgimpact.MonthlyImpact{{Month: "Jan", CarbonSaved: 12.5, EcoScore: 85}},
			want:    Summary{LatestMonth: "Jan", LatestCarbonSaved: 12.5},
		},
		{
			name: "decline",
			history: []pkgimpact.MonthlyImpact{
				{Month: "Mar", CarbonSaved: 24.8, EcoScore: 90},
				{Month: "Apr", CarbonSaved: 20.3, EcoScore: 89},
			},
			want: Summary{LatestMonth: "Apr", LatestCarbonSaved: 20.3, CarbonDelta: -4.5, EcoScoreDelta: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.history, nil)
			assert.Equal(t, tt.want.LatestMonth, got.LatestMonth)
			assert.InDelta(t, tt.want.LatestCarbonSaved, got.LatestCarbonSaved, 0.001)
			assert.InDelta(t, tt.want.CarbonDelta, got.CarbonDelta, 0.001)
			assert.Equal(t, tt.want.EcoScoreDelta, got.EcoScoreDelta)
			assert.Zero(t, got.TrackedCarbon)
		})
	}
}
