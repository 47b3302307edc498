package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bookloop/internal/catalog"
	"bookloop/internal/store"
)

// =============================================================================
// SCHEMA SQL
// =============================================================================

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS events (
  event_id     VARCHAR PRIMARY KEY,
  kind         VARCHAR NOT NULL,
  book_id      VARCHAR,
  title        VARCHAR,
  view         VARCHAR,
  detail       VARCHAR,
  occurred_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS listings (
  book_id        VARCHAR PRIMARY KEY,
  title          VARCHAR NOT NULL,
  category       VARCHAR,
  price_per_day  INTEGER NOT NULL,
  listed_at      TIMESTAMP NOT NULL
);
`

// Entry is one journaled event.
type Entry struct {
	EventID    string    `json:"event_id"`
	Kind       string    `json:"kind"`
	BookID     string    `json:"book_id,omitempty"`
	Title      string    `json:"title,omitempty"`
	View       string    `json:"view,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// CategoryCount is the number of active listings in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Listings int    `json:"listings"`
}

// Summary aggregates the journal for the profile page and the MCP server.
type Summary struct {
	EventCounts       map[string]int  `json:"event_counts"`
	ActiveListings    int             `json:"active_listings"`
	ListedValuePerDay int             `json:"listed_value_per_day"`
	Categories        []CategoryCount `json:"categories"`
}

// Repo runs the journal's queries.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, SchemaSQL)
	return err
}

// Record appends ev to the events table.
func (r *Repo) Record(ctx context.Context, ev store.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events(event_id, kind, book_id, title, view, detail, occurred_at)
		VALUES(?,?,?,?,?,?,?)
	`, ev.ID, string(ev.Kind), nullEmpty(ev.BookID), nullEmpty(ev.Title), nullEmpty(string(ev.View)), nullEmpty(ev.Detail), ev.At)
	if err != nil {
		return fmt.Errorf("record event %s: %w", ev.Kind, err)
	}
	return nil
}

// UpsertListing stores or refreshes one of the user's listings.
func (r *Repo) UpsertListing(ctx context.Context, b catalog.Book, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO listings(book_id, title, category, price_per_day, listed_at)
		VALUES(?,?,?,?,?)
	`, b.ID, b.Title, nullEmpty(b.Category), b.PricePerDay, at)
	if err != nil {
		return fmt.Errorf("upsert listing %s: %w", b.ID, err)
	}
	return nil
}

// DeleteListing removes a withdrawn listing. Unknown ids are ignored.
func (r *Repo) DeleteListing(ctx context.Context, bookID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE book_id = ?`, bookID); err != nil {
		return fmt.Errorf("delete listing %s: %w", bookID, err)
	}
	return nil
}

// ReplaceListings swaps the listings table for books.
func (r *Repo) ReplaceListings(ctx context.Context, books []catalog.Book, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM listings`); err != nil {
		return fmt.Errorf("clear listings: %w", err)
	}
	for _, b := range books {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO listings(book_id, title, category, price_per_day, listed_at)
			VALUES(?,?,?,?,?)
		`, b.ID, b.Title, nullEmpty(b.Category), b.PricePerDay, at); err != nil {
			return fmt.Errorf("insert listing %s: %w", b.ID, err)
		}
	}
	return tx.Commit()
}

// Recent returns up to limit entries, newest first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT event_id, kind,
		       COALESCE(book_id, ''), COALESCE(title, ''),
		       COALESCE(view, ''), COALESCE(detail, ''),
		       occurred_at
		FROM events
		ORDER BY occurred_at DESC, event_id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent events failed: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.EventID, &e.Kind, &e.BookID, &e.Title, &e.View, &e.Detail, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Summary aggregates event counts and the user's active listings.
func (r *Repo) Summary(ctx context.Context) (Summary, error) {
	s := Summary{EventCounts: map[string]int{}, Categories: []CategoryCount{}}

	rows, err := r.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM events GROUP BY kind`)
	if err != nil {
		return s, fmt.Errorf("count events failed: %w", err)
	}
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			rows.Close()
			return s, fmt.Errorf("scan event count: %w", err)
		}
		s.EventCounts[kind] = int(n)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return s, err
	}

	var active, value int64
	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), CAST(COALESCE(SUM(price_per_day), 0) AS BIGINT) FROM listings
	`).Scan(&active, &value)
	if err != nil {
		return s, fmt.Errorf("aggregate listings failed: %w", err)
	}
	s.ActiveListings = int(active)
	s.ListedValuePerDay = int(value)

	catRows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(category, 'Uncategorized') AS category, COUNT(*) AS n
		FROM listings
		GROUP BY 1
		ORDER BY n DESC, category
	`)
	if err != nil {
		return s, fmt.Errorf("count categories failed: %w", err)
	}
	defer catRows.Close()
	for catRows.Next() {
		var c CategoryCount
		var n int64
		if err := catRows.Scan(&c.Category, &n); err != nil {
			return s, fmt.Errorf("scan category count: %w", err)
		}
		c.Listings = int(n)
		s.Categories = append(s.Categories, c)
	}
	return s, catRows.Err()
}

func nullEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
