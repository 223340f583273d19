package model

import "time"

// Task is a to-do item owned by a user.
type Task struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes,omitempty"`
	Priority  string     `json:"priority"` // low, medium, high
	Completed bool       `json:"completed"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TaskFilter narrows task listings.
type TaskFilter struct {
	Completed *bool
	Priority  string
	Page      int
	PageSize  int
}

// TaskPage is one cached page of a task listing.
type TaskPage struct {
	Items []Task `json:"items"`
	Total int64  `json:"total"`
}
