package service

import (
	"context"
	"time"

	"lumo-assistant-api/internal/cache"
	"lumo-assistant-api/internal/model"
	"lumo-assistant-api/pkg/uid"

	"go.uber.org/zap"
)

// EmailService keeps drafts and scheduled emails in the cache. Sending
// is simulated: it marks the draft sent and counts against the hourly
// per-user rate limit. Drafts index newest-first; scheduled emails keep
// submission order so they drain in sequence.
type EmailService struct {
	drafts    *cache.EntityStore
	scheduled *cache.EntityStore
	draftIdx  *cache.IndexList
	schedIdx  *cache.IndexList
	limiter   *cache.RateLimiter
	log       *zap.Logger
}

// NewEmailService creates an email service.
func NewEmailService(
	drafts, scheduled *cache.EntityStore,
	draftIdx, schedIdx *cache.IndexList,
	limiter *cache.RateLimiter,
	log *zap.Logger,
) *EmailService {
	return &EmailService{
		drafts:    drafts,
		scheduled: scheduled,
		draftIdx:  draftIdx,
		schedIdx:  schedIdx,
		limiter:   limiter,
		log:       log,
	}
}

// EmailInput carries the fields of a draft or scheduled email.
type EmailInput struct {
	To      string
	Subject string
	Body    string
}

// CreateDraft stores a new draft.
func (s *EmailService) CreateDraft(ctx context.Context, userID string, in EmailInput) (*model.EmailDraft, error) {
	now := time.Now().UTC()
	d := &model.EmailDraft{
		ID:        uid.New(),
		UserID:    userID,
		To:        in.To,
		Subject:   in.Subject,
		Body:      in.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if !s.drafts.Save(ctx, d.ID, d) {
		return nil, ErrUnavailable
	}
	s.draftIdx.Add(ctx, userID, d.ID)
	return d, nil
}

// GetDraft loads one draft.
func (s *EmailService) GetDraft(ctx context.Context, userID, id string) (*model.EmailDraft, error) {
	var d model.EmailDraft
	if !s.drafts.Load(ctx, id, &d) || d.UserID != userID {
		return nil, ErrNotFound
	}
	return &d, nil
}

// ListDrafts returns the user's drafts, newest first, skipping expired ones.
func (s *EmailService) ListDrafts(ctx context.Context, userID string) []model.EmailDraft {
	ids := s.draftIdx.IDs(ctx, userID)
	drafts := make([]model.EmailDraft, 0, len(ids))
	for _, id := range ids {
		var d model.EmailDraft
		if !s.drafts.Load(ctx, id, &d) {
			continue
		}
		drafts = append(drafts, d)
	}
	return drafts
}

// UpdateDraft rewrites a draft's content.
func (s *EmailService) UpdateDraft(ctx context.Context, userID, id string, in EmailInput) (*model.EmailDraft, error) {
	d, err := s.GetDraft(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if d.Sent {
		return nil, ErrConflict
	}

	if in.To != "" {
		d.To = in.To
	}
	if in.Subject != "" {
		d.Subject = in.Subject
	}
	if in.Body != "" {
		d.Body = in.Body
	}
	d.UpdatedAt = time.Now().UTC()

	if !s.drafts.Save(ctx, d.ID, d) {
		return nil, ErrUnavailable
	}
	return d, nil
}

// DeleteDraft removes a draft and its register entry.
func (s *EmailService) DeleteDraft(ctx context.Context, userID, id string) error {
	if _, err := s.GetDraft(ctx, userID, id); err != nil {
		return err
	}
	s.drafts.Delete(ctx, id)
	s.draftIdx.Remove(ctx, userID, id)
	return nil
}

// Send marks a draft sent, subject to the hourly rate limit.
func (s *EmailService) Send(ctx context.Context, userID, id string) (*model.EmailDraft, error) {
	d, err := s.GetDraft(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if d.Sent {
		return nil, ErrConflict
	}

	if allowed, _ := s.limiter.Allow(ctx, userID); !allowed {
		return nil, ErrRateLimited
	}

	now := time.Now().UTC()
	d.Sent = true
	d.SentAt = &now
	d.UpdatedAt = now

	if !s.drafts.Save(ctx, d.ID, d) {
		return nil, ErrUnavailable
	}

	s.log.Info("email sent",
		zap.String("draft_id", d.ID),
		zap.String("user_id", userID),
		zap.String("to", d.To))
	return d, nil
}

// Schedule queues an email for a future send time.
func (s *EmailService) Schedule(ctx context.Context, userID string, in EmailInput, sendAt time.Time) (*model.ScheduledEmail, error) {
	e := &model.ScheduledEmail{
		ID:        uid.New(),
		UserID:    userID,
		To:        in.To,
		Subject:   in.Subject,
		Body:      in.Body,
		SendAt:    sendAt,
		CreatedAt: time.Now().UTC(),
	}

	if !s.scheduled.Save(ctx, e.ID, e) {
		return nil, ErrUnavailable
	}
	s.schedIdx.Add(ctx, userID, e.ID)
	return e, nil
}

// ListScheduled returns the user's scheduled emails in submission order.
func (s *EmailService) ListScheduled(ctx context.Context, userID string) []model.ScheduledEmail {
	ids := s.schedIdx.IDs(ctx, userID)
	emails := make([]model.ScheduledEmail, 0, len(ids))
	for _, id := range ids {
		var e model.ScheduledEmail
		if !s.scheduled.Load(ctx, id, &e) {
			continue
		}
		emails = append(emails, e)
	}
	return emails
}

// CancelScheduled removes a scheduled email.
func (s *EmailService) CancelScheduled(ctx context.Context, userID, id string) error {
	var e model.ScheduledEmail
	if !s.scheduled.Load(ctx, id, &e) || e.UserID != userID {
		return ErrNotFound
	}
	s.scheduled.Delete(ctx, id)
	s.schedIdx.Remove(ctx, userID, id)
	return nil
}
