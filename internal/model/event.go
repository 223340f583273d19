package model

import "time"

// Event is a calendar entry.
type Event struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventFilter narrows event listings to a time range.
type EventFilter struct {
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// EventPage is one cached page of an event listing.
type EventPage struct {
	Items []Event `json:"items"`
	Total int64   `json:"total"`
}
