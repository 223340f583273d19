package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lumo-assistant-api/internal/cache"
	"lumo-assistant-api/internal/model"
	"lumo-assistant-api/internal/repository"
	"lumo-assistant-api/pkg/uid"

	"go.uber.org/zap"
)

// EventService wraps the calendar repository with the same
// read-through query cache the task service uses.
type EventService struct {
	repo    repository.EventRepository
	queries *cache.QueryCache
	log     *zap.Logger
}

// NewEventService creates an event service.
func NewEventService(repo repository.EventRepository, queries *cache.QueryCache, log *zap.Logger) *EventService {
	return &EventService{repo: repo, queries: queries, log: log}
}

// EventInput carries the fields accepted on create/update.
type EventInput struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      time.Time
}

// Create stores a new event and invalidates the actor's cached pages.
func (s *EventService) Create(ctx context.Context, userID string, in EventInput) (*model.Event, error) {
	now := time.Now().UTC()
	e := &model.Event{
		ID:          uid.New(),
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	s.queries.Invalidate(ctx, userID)
	return e, nil
}

// Get returns one event or ErrNotFound.
func (s *EventService) Get(ctx context.Context, userID, id string) (*model.Event, error) {
	e, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotFound
	}
	return e, nil
}

// List serves a page from the query cache, falling back to SQLite.
func (s *EventService) List(ctx context.Context, userID string, f model.EventFilter) (*model.EventPage, error) {
	filters := map[string]string{}
	if f.From != nil {
		filters["from"] = f.From.UTC().Format(time.RFC3339)
	}
	if f.To != nil {
		filters["to"] = f.To.UTC().Format(time.RFC3339)
	}
	key := s.queries.Key(userID, filters, f.Page, f.PageSize)

	var page model.EventPage
	if s.queries.Fetch(ctx, key, &page) {
		return &page, nil
	}

	items, total, err := s.repo.List(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	page = model.EventPage{Items: items, Total: total}
	s.queries.Save(ctx, key, &page)
	return &page, nil
}

// Update applies the input to an existing event.
func (s *EventService) Update(ctx context.Context, userID, id string, in EventInput) (*model.Event, error) {
	e, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		e.Title = in.Title
	}
	if in.Description != "" {
		e.Description = in.Description
	}
	if in.Location != "" {
		e.Location = in.Location
	}
	if !in.StartsAt.IsZero() {
		e.StartsAt = in.StartsAt
	}
	if !in.EndsAt.IsZero() {
		e.EndsAt = in.EndsAt
	}

	if err := s.repo.Update(ctx, e); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	s.queries.Invalidate(ctx, userID)
	return e, nil
}

// Delete removes an event and invalidates the actor's cached pages.
func (s *EventService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}
	s.queries.Invalidate(ctx, userID)
	return nil
}
