package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"lumo-assistant-api/internal/model"
)

// SQLiteEventRepository implements EventRepository using SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteEventRepository creates the event repository over a shared handle.
func NewSQLiteEventRepository(db *sql.DB) (*SQLiteEventRepository, error) {
	query := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		starts_at DATETIME NOT NULL,
		ends_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_user ON events(user_id);
	CREATE INDEX IF NOT EXISTS idx_events_starts ON events(starts_at);
	`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to create events table: %w", err)
	}
	return &SQLiteEventRepository{db: db}, nil
}

// Create inserts a new event.
func (r *SQLiteEventRepository) Create(ctx context.Context, e *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO events (id, user_id, title, description, location, starts_at, ends_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// Get retrieves one event scoped to its owner. Returns (nil, nil) when absent.
func (r *SQLiteEventRepository) Get(ctx context.Context, userID, id string) (*model.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `SELECT id, user_id, title, description, location, starts_at, ends_at, created_at, updated_at
		FROM events WHERE id = ? AND user_id = ?`

	var e model.Event
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&e.ID, &e.UserID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &e.EndsAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &e, nil
}

// List returns a page of the user's events within the filter range.
func (r *SQLiteEventRepository) List(ctx context.Context, userID string, f model.EventFilter) ([]model.Event, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	where := "WHERE user_id = ?"
	args := []any{userID}

	if f.From != nil {
		where += " AND starts_at >= ?"
		args = append(args, *f.From)
	}
	if f.To != nil {
		where += " AND starts_at < ?"
		args = append(args, *f.To)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	page, size := normalizePage(f.Page, f.PageSize)
	query := fmt.Sprintf(`SELECT id, user_id, title, description, location, starts_at, ends_at, created_at, updated_at
		FROM events %s ORDER BY starts_at ASC LIMIT ? OFFSET ?`, where)
	args = append(args, size, (page-1)*size)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]model.Event, 0, size)
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &e.EndsAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

// Update rewrites an event's mutable fields.
func (r *SQLiteEventRepository) Update(ctx context.Context, e *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.UpdatedAt = time.Now().UTC()
	query := `UPDATE events SET title = ?, description = ?, location = ?, starts_at = ?, ends_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`

	res, err := r.db.ExecContext(ctx, query,
		e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, e.UpdatedAt, e.ID, e.UserID)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an event.
func (r *SQLiteEventRepository) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

var _ EventRepository = (*SQLiteEventRepository)(nil)
