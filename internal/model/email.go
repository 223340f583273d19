package model

import "time"

// EmailDraft is a cache-resident draft. No SMTP is involved; sending
// marks the draft sent and counts against the hourly rate limit.
type EmailDraft struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	To        string     `json:"to"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	Sent      bool       `json:"sent"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ScheduledEmail is an email queued for a future send time.
type ScheduledEmail struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	SendAt    time.Time `json:"send_at"`
	CreatedAt time.Time `json:"created_at"`
}
