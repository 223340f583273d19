package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"lumo-assistant-api/internal/model"
)

// SQLiteTaskRepository implements TaskRepository using SQLite.
type SQLiteTaskRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteTaskRepository creates the task repository over a shared handle.
func NewSQLiteTaskRepository(db *sql.DB) (*SQLiteTaskRepository, error) {
	query := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL DEFAULT 'medium',
		completed INTEGER NOT NULL DEFAULT 0,
		due_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(due_at);
	`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to create tasks table: %w", err)
	}
	return &SQLiteTaskRepository{db: db}, nil
}

// Create inserts a new task.
func (r *SQLiteTaskRepository) Create(ctx context.Context, t *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO tasks (id, user_id, title, notes, priority, completed, due_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.UserID, t.Title, t.Notes, t.Priority, boolToInt(t.Completed), t.DueAt, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// Get retrieves one task scoped to its owner. Returns (nil, nil) when absent.
func (r *SQLiteTaskRepository) Get(ctx context.Context, userID, id string) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `SELECT id, user_id, title, notes, priority, completed, due_at, created_at, updated_at
		FROM tasks WHERE id = ? AND user_id = ?`

	var t model.Task
	var completed int
	var dueAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Notes, &t.Priority, &completed, &dueAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	t.Completed = completed != 0
	if dueAt.Valid {
		t.DueAt = &dueAt.Time
	}
	return &t, nil
}

// List returns a page of the user's tasks plus the total match count.
func (r *SQLiteTaskRepository) List(ctx context.Context, userID string, f model.TaskFilter) ([]model.Task, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	where := "WHERE user_id = ?"
	args := []any{userID}

	if f.Completed != nil {
		where += " AND completed = ?"
		args = append(args, boolToInt(*f.Completed))
	}
	if f.Priority != "" {
		where += " AND priority = ?"
		args = append(args, f.Priority)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	page, size := normalizePage(f.Page, f.PageSize)
	query := fmt.Sprintf(`SELECT id, user_id, title, notes, priority, completed, due_at, created_at, updated_at
		FROM tasks %s ORDER BY created_at DESC LIMIT ? OFFSET ?`, where)
	args = append(args, size, (page-1)*size)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0, size)
	for rows.Next() {
		var t model.Task
		var completed int
		var dueAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Notes, &t.Priority, &completed, &dueAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan task: %w", err)
		}
		t.Completed = completed != 0
		if dueAt.Valid {
			t.DueAt = &dueAt.Time
		}
		tasks = append(tasks, t)
	}
	return tasks, total, rows.Err()
}

// Update rewrites a task's mutable fields.
func (r *SQLiteTaskRepository) Update(ctx context.Context, t *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.UpdatedAt = time.Now().UTC()
	query := `UPDATE tasks SET title = ?, notes = ?, priority = ?, completed = ?, due_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`

	res, err := r.db.ExecContext(ctx, query,
		t.Title, t.Notes, t.Priority, boolToInt(t.Completed), t.DueAt, t.UpdatedAt, t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a task.
func (r *SQLiteTaskRepository) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return page, size
}

var _ TaskRepository = (*SQLiteTaskRepository)(nil)
