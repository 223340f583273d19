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

// ReminderService wraps the reminder repository with the read-through
// query cache.
type ReminderService struct {
	repo    repository.ReminderRepository
	queries *cache.QueryCache
	log     *zap.Logger
}

// NewReminderService creates a reminder service.
func NewReminderService(repo repository.ReminderRepository, queries *cache.QueryCache, log *zap.Logger) *ReminderService {
	return &ReminderService{repo: repo, queries: queries, log: log}
}

// Create stores a new reminder.
func (s *ReminderService) Create(ctx context.Context, userID, message string, remindAt time.Time) (*model.Reminder, error) {
	now := time.Now().UTC()
	rem := &model.Reminder{
		ID:        uid.New(),
		UserID:    userID,
		Message:   message,
		RemindAt:  remindAt,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, rem); err != nil {
		return nil, err
	}
	s.queries.Invalidate(ctx, userID)
	return rem, nil
}

// Get returns one reminder or ErrNotFound.
func (s *ReminderService) Get(ctx context.Context, userID, id string) (*model.Reminder, error) {
	rem, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if rem == nil {
		return nil, ErrNotFound
	}
	return rem, nil
}

// List serves a page from the query cache, falling back to SQLite.
func (s *ReminderService) List(ctx context.Context, userID string, f model.ReminderFilter) (*model.ReminderPage, error) {
	filters := map[string]string{}
	if f.Done != nil {
		filters["done"] = strconv.FormatBool(*f.Done)
	}
	key := s.queries.Key(userID, filters, f.Page, f.PageSize)

	var page model.ReminderPage
	if s.queries.Fetch(ctx, key, &page) {
		return &page, nil
	}

	items, total, err := s.repo.List(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	page = model.ReminderPage{Items: items, Total: total}
	s.queries.Save(ctx, key, &page)
	return &page, nil
}

// Update applies changes to an existing reminder.
func (s *ReminderService) Update(ctx context.Context, userID, id, message string, remindAt *time.Time, done *bool) (*model.Reminder, error) {
	rem, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if message != "" {
		rem.Message = message
	}
	if remindAt != nil {
		rem.RemindAt = *remindAt
	}
	if done != nil {
		rem.Done = *done
	}

	if err := s.repo.Update(ctx, rem); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update reminder: %w", err)
	}
	s.queries.Invalidate(ctx, userID)
	return rem, nil
}

// Delete removes a reminder.
func (s *ReminderService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}
	s.queries.Invalidate(ctx, userID)
	return nil
}
