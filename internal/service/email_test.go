package service

import (
	"context"
	"testing"
	"time"

	"lumo-assistant-api/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEmailService(t *testing.T, sendLimit int64) *EmailService {
	t.Helper()
	kv := newTestKV(t)
	drafts := cache.NewEntityStore(kv, "email_draft", 2592000)
	scheduled := cache.NewEntityStore(kv, "scheduled_email", 2592000)
	draftIdx := cache.NewIndexList(kv, "email_drafts", 50, 2592000, true)
	schedIdx := cache.NewIndexList(kv, "scheduled_emails", 100, 2592000, false)
	limiter := cache.NewRateLimiter(kv, "email", sendLimit, time.Hour)
	return NewEmailService(drafts, scheduled, draftIdx, schedIdx, limiter, zap.NewNop())
}

func TestEmailDraftLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newEmailService(t, 50)

	d, err := svc.CreateDraft(ctx, "u1", EmailInput{To: "bob@example.com", Subject: "Hi", Body: "First cut"})
	require.NoError(t, err)
	assert.False(t, d.Sent)

	updated, err := svc.UpdateDraft(ctx, "u1", d.ID, EmailInput{Body: "Second cut"})
	require.NoError(t, err)
	assert.Equal(t, "Second cut", updated.Body)
	assert.Equal(t, "Hi", updated.Subject, "untouched fields survive a partial update")

	drafts := svc.ListDrafts(ctx, "u1")
	require.Len(t, drafts, 1)

	require.NoError(t, svc.DeleteDraft(ctx, "u1", d.ID))
	assert.Empty(t, svc.ListDrafts(ctx, "u1"))

	_, err = svc.GetDraft(ctx, "u1", d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEmailDraftOwnership(t *testing.T) {
	ctx := context.Background()
	svc := newEmailService(t, 50)

	d, err := svc.CreateDraft(ctx, "u1", EmailInput{To: "a@b.c", Subject: "s", Body: "b"})
	require.NoError(t, err)

	_, err = svc.GetDraft(ctx, "u2", d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteDraft(ctx, "u2", d.ID), ErrNotFound)
}

func TestEmailSend(t *testing.T) {
	ctx := context.Background()
	svc := newEmailService(t, 50)

	d, err := svc.CreateDraft(ctx, "u1", EmailInput{To: "a@b.c", Subject: "s", Body: "b"})
	require.NoError(t, err)

	sent, err := svc.Send(ctx, "u1", d.ID)
	require.NoError(t, err)
	assert.True(t, sent.Sent)
	require.NotNil(t, sent.SentAt)

	// A sent draft is frozen.
	_, err = svc.Send(ctx, "u1", d.ID)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = svc.UpdateDraft(ctx, "u1", d.ID, EmailInput{Body: "too late"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestEmailSendRateLimited(t *testing.T) {
	ctx := context.Background()
	svc := newEmailService(t, 2)

	for i := 0; i < 2; i++ {
		d, err := svc.CreateDraft(ctx, "u1", EmailInput{To: "a@b.c", Subject: "s", Body: "b"})
		require.NoError(t, err)
		_, err = svc.Send(ctx, "u1", d.ID)
		require.NoError(t, err)
	}

	d, err := svc.CreateDraft(ctx, "u1", EmailInput{To: "a@b.c", Subject: "s", Body: "b"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, "u1", d.ID)
	assert.ErrorIs(t, err, ErrRateLimited)

	// The rejected draft stays unsent and editable.
	got, err := svc.GetDraft(ctx, "u1", d.ID)
	require.NoError(t, err)
	assert.False(t, got.Sent)
}

func TestEmailSchedule(t *testing.T) {
	ctx := context.Background()
	svc := newEmailService(t, 50)

	sendAt := time.Now().Add(2 * time.Hour).UTC()
	first, err := svc.Schedule(ctx, "u1", EmailInput{To: "a@b.c", Subject: "first", Body: "b"}, sendAt)
	require.NoError(t, err)
	second, err := svc.Schedule(ctx, "u1", EmailInput{To: "a@b.c", Subject: "second", Body: "b"}, sendAt.Add(time.Hour))
	require.NoError(t, err)

	list := svc.ListScheduled(ctx, "u1")
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID, "scheduled emails keep submission order")
	assert.Equal(t, second.ID, list[1].ID)

	require.NoError(t, svc.CancelScheduled(ctx, "u1", first.ID))
	list = svc.ListScheduled(ctx, "u1")
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)

	assert.ErrorIs(t, svc.CancelScheduled(ctx, "u1", first.ID), ErrNotFound)
	assert.ErrorIs(t, svc.CancelScheduled(ctx, "u2", second.ID), ErrNotFound)
}
