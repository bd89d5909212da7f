package impact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/HerbHall/ecotrace/internal/store"
)

// Sentinel errors returned by the tracker.
var (
	ErrNotFound        = errors.New("tracker entry not found")
	ErrUnknownProduct  = errors.New("unknown product")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Entry is a product the user added to the tracker.
type Entry struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

// TrackerRepository persists tracker entries.
type TrackerRepository interface {
	// List returns all entries, oldest first.
	List(ctx context.Context) ([]Entry, error)

	// Add records a new entry and returns it with its generated id.
	Add(ctx context.Context, productID string, quantity int) (Entry, error)

	// Remove deletes an entry by id.
	Remove(ctx context.Context, id string) error
}

// Compile-time interface guard.
var _ TrackerRepository = (*SQLiteTracker)(nil)

// SQLiteTracker implements TrackerRepository using SQLite.
type SQLiteTracker struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteTracker creates a TrackerRepository and runs the impact migrations.
// A nil now defaults to time.Now.
func NewSQLiteTracker(ctx context.Context, st *store.SQLiteStore, now func() time.Time) (*SQLiteTracker, error) {
	if err := st.Migrate(ctx, "impact", trackerMigrations); err != nil {
		return nil, fmt.Errorf("impact migrations: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	return &SQLiteTracker{db: st.DB(), now: now}, nil
}

func (r *SQLiteTracker) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, quantity, added_at FROM impact_tracked ORDER BY added_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("list tracker entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e       Entry
			addedAt string
		)
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Quantity, &addedAt); err != nil {
			return nil, fmt.Errorf("scan tracker row: %w", err)
		}
		if e.AddedAt, err = time.Parse(time.RFC3339Nano, addedAt); err != nil {
			return nil, fmt.Errorf("parse added_at of %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLiteTracker) Add(ctx context.Context, productID string, quantity int) (Entry, error) {
	if quantity < 1 {
		return Entry{}, ErrInvalidQuantity
	}
	e := Entry{
		ID:        uuid.New().String(),
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   r.now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO impact_tracked (id, product_id, quantity, added_at) VALUES (?, ?, ?, ?)`,
		e.ID, e.ProductID, e.Quantity, e.AddedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert tracker entry: %w", err)
	}
	return e, nil
}

func (r *SQLiteTracker) Remove(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM impact_tracked WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tracker entry %q: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// trackerMigrations defines the database schema for impact_tracked.
var trackerMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create impact_tracked table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE impact_tracked (
					id         TEXT PRIMARY KEY,
					product_id TEXT NOT NULL,
					quantity   INTEGER NOT NULL CHECK (quantity >= 1),
					added_at   TEXT NOT NULL
				)`)
			return err
		},
	},
	{
		Version:     2,
		Description: "index impact_tracked by added_at",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX idx_impact_tracked_added_at ON impact_tracked (added_at)`)
			return err
		},
	},
}
