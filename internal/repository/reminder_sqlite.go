package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"lumo-assistant-api/internal/model"
)

// SQLiteReminderRepository implements ReminderRepository using SQLite.
type SQLiteReminderRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteReminderRepository creates the reminder repository over a shared handle.
func NewSQLiteReminderRepository(db *sql.DB) (*SQLiteReminderRepository, error) {
	query := `
	CREATE TABLE IF NOT EXISTS reminders (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		message TEXT NOT NULL,
		remind_at DATETIME NOT NULL,
		done INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reminders_user ON reminders(user_id);
	CREATE INDEX IF NOT EXISTS idx_reminders_at ON reminders(remind_at);
	`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to create reminders table: %w", err)
	}
	return &SQLiteReminderRepository{db: db}, nil
}

// Create inserts a new reminder.
func (r *SQLiteReminderRepository) Create(ctx context.Context, rem *model.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO reminders (id, user_id, message, remind_at, done, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		rem.ID, rem.UserID, rem.Message, rem.RemindAt, boolToInt(rem.Done), rem.CreatedAt, rem.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}
	return nil
}

// Get retrieves one reminder scoped to its owner. Returns (nil, nil) when absent.
func (r *SQLiteReminderRepository) Get(ctx context.Context, userID, id string) (*model.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `SELECT id, user_id, message, remind_at, done, created_at, updated_at
		FROM reminders WHERE id = ? AND user_id = ?`

	var rem model.Reminder
	var done int
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&rem.ID, &rem.UserID, &rem.Message, &rem.RemindAt, &done, &rem.CreatedAt, &rem.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	rem.Done = done != 0
	return &rem, nil
}

// List returns a page of the user's reminders.
func (r *SQLiteReminderRepository) List(ctx context.Context, userID string, f model.ReminderFilter) ([]model.Reminder, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	where := "WHERE user_id = ?"
	args := []any{userID}

	if f.Done != nil {
		where += " AND done = ?"
		args = append(args, boolToInt(*f.Done))
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reminders "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reminders: %w", err)
	}

	page, size := normalizePage(f.Page, f.PageSize)
	query := fmt.Sprintf(`SELECT id, user_id, message, remind_at, done, created_at, updated_at
		FROM reminders %s ORDER BY remind_at ASC LIMIT ? OFFSET ?`, where)
	args = append(args, size, (page-1)*size)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	reminders := make([]model.Reminder, 0, size)
	for rows.Next() {
		var rem model.Reminder
		var done int
		if err := rows.Scan(&rem.ID, &rem.UserID, &rem.Message, &rem.RemindAt, &done, &rem.CreatedAt, &rem.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan reminder: %w", err)
		}
		rem.Done = done != 0
		reminders = append(reminders, rem)
	}
	return reminders, total, rows.Err()
}

// Update rewrites a reminder's mutable fields.
func (r *SQLiteReminderRepository) Update(ctx context.Context, rem *model.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rem.UpdatedAt = time.Now().UTC()
	query := `UPDATE reminders SET message = ?, remind_at = ?, done = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`

	res, err := r.db.ExecContext(ctx, query,
		rem.Message, rem.RemindAt, boolToInt(rem.Done), rem.UpdatedAt, rem.ID, rem.UserID)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a reminder.
func (r *SQLiteReminderRepository) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, "DELETE FROM reminders WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

var _ ReminderRepository = (*SQLiteReminderRepository)(nil)
