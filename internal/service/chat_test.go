package service

import (
	"context"
	"testing"
	"time"

	"lumo-assistant-api/internal/cache"
	"lumo-assistant-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newChatService(t *testing.T, limit int64, window time.Duration) *ChatService {
	t.Helper()
	kv := newTestKV(t)
	messages := cache.NewEntityStore(kv, "chat_msg", 604800)
	history := cache.NewIndexList(kv, "chat_history", 50, 604800, true)
	limiter := cache.NewRateLimiter(kv, "chat", limit, window)
	return NewChatService(messages, history, limiter, zap.NewNop())
}

func TestChatRespond(t *testing.T) {
	svc := newChatService(t, 100, time.Minute)

	cases := []struct {
		message  string
		contains string
	}{
		{"Hello there", "Hello! I'm your assistant"},
		{"hi!", "Hello! I'm your assistant"},
		{"add a task for tomorrow", "Tasks"},
		{"what's on my calendar?", "Events"},
		{"can you schedule a meeting", "Events"},
		{"remind me to call mom", "reminder"},
		{"I'm hungry", "food order"},
		{"order pizza", "food order"},
		{"draft an email to bob", "draft emails"},
		{"thanks!", "You're welcome"},
		{"bye", "Goodbye"},
		{"what is the meaning of life", "I'm not sure I follow"},
		{"", "I'm not sure I follow"},
	}
	for _, tc := range cases {
		assert.Contains(t, svc.Respond(tc.message), tc.contains, "message %q", tc.message)
	}
}

func TestChatRespondCaseInsensitive(t *testing.T) {
	svc := newChatService(t, 100, time.Minute)
	assert.Equal(t, svc.Respond("HELLO"), svc.Respond("hello"))
	assert.Equal(t, svc.Respond("ORDER FOOD"), svc.Respond("order food"))
}

func TestChatSendRecordsHistory(t *testing.T) {
	ctx := context.Background()
	svc := newChatService(t, 100, time.Minute)

	reply, err := svc.Send(ctx, "u1", "hello")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAssistant, reply.Role)
	assert.Contains(t, reply.Text, "Hello!")

	history := svc.History(ctx, "u1")
	require.Len(t, history, 2)
	// Newest first: the assistant reply, then the user message.
	assert.Equal(t, model.RoleAssistant, history[0].Role)
	assert.Equal(t, model.RoleUser, history[1].Role)
	assert.Equal(t, "hello", history[1].Text)

	assert.Empty(t, svc.History(ctx, "u2"))
}

func TestChatSendRateLimited(t *testing.T) {
	ctx := context.Background()
	svc := newChatService(t, 2, time.Minute)

	_, err := svc.Send(ctx, "u1", "hello")
	require.NoError(t, err)
	_, err = svc.Send(ctx, "u1", "task")
	require.NoError(t, err)

	_, err = svc.Send(ctx, "u1", "order")
	assert.ErrorIs(t, err, ErrRateLimited)

	// A different user is unaffected.
	_, err = svc.Send(ctx, "u2", "hello")
	assert.NoError(t, err)
}
