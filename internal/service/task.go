package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"lumo-assistant-api/internal/cache"
	"lumo-assistant-api/internal/model"
	"lumo-assistant-api/internal/repository"
	"lumo-assistant-api/pkg/uid"

	"go.uber.org/zap"
)

// TaskService wraps the task repository with a read-through
// query-result cache: list pages are served from the cache when
// present and recomputed from SQLite otherwise; any mutation
// invalidates every cached page for the actor.
type TaskService struct {
	repo    repository.TaskRepository
	queries *cache.QueryCache
	log     *zap.Logger
}

// NewTaskService creates a task service.
func NewTaskService(repo repository.TaskRepository, queries *cache.QueryCache, log *zap.Logger) *TaskService {
	return &TaskService{repo: repo, queries: queries, log: log}
}

// TaskCreateInput carries the fields accepted on create/update.
type TaskCreateInput struct {
	Title    string
	Notes    string
	Priority string
	DueAt    *time.Time
}

// Create stores a new task and invalidates the actor's cached pages.
func (s *TaskService) Create(ctx context.Context, userID string, in TaskCreateInput) (*model.Task, error) {
	now := time.Now().UTC()
	t := &model.Task{
		ID:        uid.New(),
		UserID:    userID,
		Title:     in.Title,
		Notes:     in.Notes,
		Priority:  in.Priority,
		DueAt:     in.DueAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if t.Priority == "" {
		t.Priority = "medium"
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.queries.Invalidate(ctx, userID)
	return t, nil
}

// Get returns one task or ErrNotFound.
func (s *TaskService) Get(ctx context.Context, userID, id string) (*model.Task, error) {
	t, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}
	return t, nil
}

// List serves a page from the query cache, falling back to SQLite.
func (s *TaskService) List(ctx context.Context, userID string, f model.TaskFilter) (*model.TaskPage, error) {
	filters := map[string]string{"priority": f.Priority}
	if f.Completed != nil {
		filters["completed"] = strconv.FormatBool(*f.Completed)
	}
	key := s.queries.Key(userID, filters, f.Page, f.PageSize)

	var page model.TaskPage
	if s.queries.Fetch(ctx, key, &page) {
		return &page, nil
	}

	items, total, err := s.repo.List(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	page = model.TaskPage{Items: items, Total: total}
	s.queries.Save(ctx, key, &page)
	return &page, nil
}

// Update applies the input to an existing task.
func (s *TaskService) Update(ctx context.Context, userID, id string, in TaskCreateInput, completed *bool) (*model.Task, error) {
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		t.Title = in.Title
	}
	if in.Notes != "" {
		t.Notes = in.Notes
	}
	if in.Priority != "" {
		t.Priority = in.Priority
	}
	if in.DueAt != nil {
		t.DueAt = in.DueAt
	}
	if completed != nil {
		t.Completed = *completed
	}

	if err := s.repo.Update(ctx, t); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	s.queries.Invalidate(ctx, userID)
	return t, nil
}

// Delete removes a task and invalidates the actor's cached pages.
func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}
	s.queries.Invalidate(ctx, userID)
	return nil
}
