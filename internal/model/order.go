package model

import "time"

// Order statuses, in the sequence the simulation walks through.
const (
	OrderPlaced     = "placed"
	OrderConfirmed  = "confirmed"
	OrderPreparing  = "preparing"
	OrderDelivering = "delivering"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Order is a simulated food order. Orders live only in the cache; the
// 24h TTL on the entity is the retention policy.
type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	Restaurant string      `json:"restaurant"`
	Items      []OrderItem `json:"items"`
	Total      float64     `json:"total"`
	Status     string      `json:"status"`
	PlacedAt   time.Time   `json:"placed_at"`
}

// OrderItem is a single line of an order.
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}
