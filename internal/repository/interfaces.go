package repository

import (
	"context"

	"lumo-assistant-api/internal/model"
)

// TaskRepository defines task data access methods.
type TaskRepository interface {
	Create(ctx context.Context, t *model.Task) error
	Get(ctx context.Context, userID, id string) (*model.Task, error)
	List(ctx context.Context, userID string, f model.TaskFilter) ([]model.Task, int64, error)
	Update(ctx context.Context, t *model.Task) error
	Delete(ctx context.Context, userID, id string) error
}

// EventRepository defines calendar event data access methods.
type EventRepository interface {
	Create(ctx context.Context, e *model.Event) error
	Get(ctx context.Context, userID, id string) (*model.Event, error)
	List(ctx context.Context, userID string, f model.EventFilter) ([]model.Event, int64, error)
	Update(ctx context.Context, e *model.Event) error
	Delete(ctx context.Context, userID, id string) error
}

// ReminderRepository defines reminder data access methods.
type ReminderRepository interface {
	Create(ctx context.Context, r *model.Reminder) error
	Get(ctx context.Context, userID, id string) (*model.Reminder, error)
	List(ctx context.Context, userID string, f model.ReminderFilter) ([]model.Reminder, int64, error)
	Update(ctx context.Context, r *model.Reminder) error
	Delete(ctx context.Context, userID, id string) error
}

// AccountRepository looks actors up in the optional user directory.
type AccountRepository interface {
	GetByUserID(ctx context.Context, userID string) (*model.UserAccount, error)
}
