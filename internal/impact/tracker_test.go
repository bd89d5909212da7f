package impact_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HerbHall/ecotrace/internal/impact"
	"github.com/HerbHall/ecotrace/internal/testutil"
)

func newTracker(t *testing.T, clock *testutil.Clock) *impact.SQLiteTracker {
	t.Helper()
	st := testutil.NewStore(t)
	repo, err := impact.NewSQLiteTracker(context.Background(), st, clock.Now)
	if err != nil {
		t.Fatalf("NewSQLiteTracker: %v", err)
	}
	return repo
}

func TestSQLiteTracker_AddAndList(t *testing.T) {
	clock := testutil.NewClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	repo := newTracker(t, clock)
	ctx := context.Background()

	first, err := repo.Add(ctx, "7", 3)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if first.ID == "" {
		t.Error("Add returned empty id")
	}
	if !first.AddedAt.Equal(clock.Now()) {
		t.Errorf("AddedAt = %v, want %v", first.AddedAt, clock.Now())
	}

	clock.Advance(time.Hour)
	second, err := repo.Add(ctx, "9", 1)
	if err != nil {
		t.Fatalf("Add second: %v", err)
	}

	entries, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List len = %d, want 2", len(entries))
	}
	if entries[0].ID != first.ID || entries[1].ID != second.ID {
		t.Errorf("List order = [%s %s], want [%s %s]", entries[0].ID, entries[1].ID, first.ID, second.ID)
	}
	if entries[0].ProductID != "7" || entries[0].Quantity != 3 {
		t.Errorf("entry = %+v, want product 7 quantity 3", entries[0])
	}
	if !entries[1].AddedAt.Equal(clock.Now()) {
		t.Errorf("second AddedAt = %v, want %v", entries[1].AddedAt, clock.Now())
	}
}

func TestSQLiteTracker_ListEmpty(t *testing.T) {
	repo := newTracker(t, testutil.NewClock())

	entries, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("List = %v, want empty non-nil slice", entries)
	}
}

func TestSQLiteTracker_AddInvalidQuantity(t *testing.T) {
	repo := newTracker(t, testutil.NewClock())

	for _, q := range []int{0, -2} {
		if _, err := repo.Add(context.Background(), "1", q); !errors.Is(err, impact.ErrInvalidQuantity) {
			t.Errorf("Add quantity %d error = %v, want ErrInvalidQuantity", q, err)
		}
	}
}

func TestSQLiteTracker_Remove(t *testing.T) {
	repo := newTracker(t, testutil.NewClock())
	ctx := context.Background()

	e, err := repo.Add(ctx, "1", 2)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := repo.Remove(ctx, e.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	entries, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List len after remove = %d, want 0", len(entries))
	}

	if err := repo.Remove(ctx, e.ID); !errors.Is(err, impact.ErrNotFound) {
		t.Errorf("second Remove error = %v, want ErrNotFound", err)
	}
}

func TestNewSQLiteTracker_MigrationsIdempotent(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()

	if _, err := impact.NewSQLiteTracker(ctx, st, nil); err != nil {
		t.Fatalf("first NewSQLiteTracker: %v", err)
	}
	if _, err := impact.NewSQLiteTracker(ctx, st, nil); err != nil {
		t.Fatalf("second NewSQLiteTracker: %v", err)
	}
}
