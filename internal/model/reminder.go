package model

import "time"

// Reminder is a one-shot notification request.
type Reminder struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	RemindAt  time.Time `json:"remind_at"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReminderFilter narrows reminder listings.
type ReminderFilter struct {
	Done     *bool
	Page     int
	PageSize int
}

// ReminderPage is one cached page of a reminder listing.
type ReminderPage struct {
	Items []Reminder `json:"items"`
	Total int64      `json:"total"`
}
