package service

import (
	"context"
	"strings"
	"time"

	"lumo-assistant-api/internal/cache"
	"lumo-assistant-api/internal/model"
	"lumo-assistant-api/pkg/uid"

	"go.uber.org/zap"
)

// cannedReplies maps message keywords to assistant responses. First
// match wins, top to bottom.
var cannedReplies = []struct {
	keywords []string
	reply    string
}{
	{[]string{"hello", "hi", "hey"}, "Hello! I'm your assistant. I can help with tasks, calendar events, reminders, food orders, and emails."},
	{[]string{"task", "todo"}, "You can manage your to-dos under Tasks. Want me to list what's due today?"},
	{[]string{"calendar", "event", "meeting", "schedule"}, "Your calendar is under Events. I can add a meeting if you give me a time and a title."},
	{[]string{"remind", "reminder"}, "Sure - create a reminder with a message and a time and I'll keep track of it."},
	{[]string{"order", "food", "hungry", "lunch", "dinner"}, "I can place a food order for you. Tell me the restaurant and what you'd like."},
	{[]string{"email", "mail", "draft"}, "I can draft emails for you and send them when you're ready, or schedule them for later."},
	{[]string{"thank", "thanks"}, "You're welcome! Anything else I can help with?"},
	{[]string{"bye", "goodbye"}, "Goodbye! I'll be here when you need me."},
}

const fallbackReply = "I'm not sure I follow. I can help with tasks, events, reminders, food orders, and emails - what would you like to do?"

// ChatService produces canned assistant replies and keeps per-user
// conversation history in the cache.
type ChatService struct {
	messages *cache.EntityStore
	history  *cache.IndexList
	limiter  *cache.RateLimiter
	log      *zap.Logger
}

// NewChatService creates a chat service.
func NewChatService(messages *cache.EntityStore, history *cache.IndexList, limiter *cache.RateLimiter, log *zap.Logger) *ChatService {
	return &ChatService{messages: messages, history: history, limiter: limiter, log: log}
}

// Respond returns the canned reply for a message. Pure keyword lookup,
// no state.
func (s *ChatService) Respond(message string) string {
	lower := strings.ToLower(message)
	for _, c := range cannedReplies {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.reply
			}
		}
	}
	return fallbackReply
}

// Send records the user's message, generates the reply, records it
// too, and returns it. Subject to the per-minute rate limit.
func (s *ChatService) Send(ctx context.Context, userID, text string) (*model.ChatMessage, error) {
	if allowed, _ := s.limiter.Allow(ctx, userID); !allowed {
		return nil, ErrRateLimited
	}

	now := time.Now().UTC()
	userMsg := &model.ChatMessage{
		ID:        uid.New(),
		UserID:    userID,
		Role:      model.RoleUser,
		Text:      text,
		CreatedAt: now,
	}
	reply := &model.ChatMessage{
		ID:        uid.New(),
		UserID:    userID,
		Role:      model.RoleAssistant,
		Text:      s.Respond(text),
		CreatedAt: now,
	}

	// History is best-effort; a down cache still gets the user a reply.
	if s.messages.Save(ctx, userMsg.ID, userMsg) {
		s.history.Add(ctx, userID, userMsg.ID)
	}
	if s.messages.Save(ctx, reply.ID, reply) {
		s.history.Add(ctx, userID, reply.ID)
	}

	return reply, nil
}

// History returns the user's recent messages, newest first, skipping
// entries whose entity expired before the register.
func (s *ChatService) History(ctx context.Context, userID string) []model.ChatMessage {
	ids := s.history.IDs(ctx, userID)
	msgs := make([]model.ChatMessage, 0, len(ids))
	for _, id := range ids {
		var m model.ChatMessage
		if !s.messages.Load(ctx, id, &m) {
			continue
		}
		msgs = append(msgs, m)
	}
	return msgs
}
