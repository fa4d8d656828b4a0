// Package queue defines the message payloads exchanged over the
// broker plus the publisher and the background notification consumer.
package queue

// Queue names double as routing keys on the default exchange.
const (
	OrderPlacedQueue = "order.placed"
	UserDeletedQueue = "user.deleted"
)

// OrderPlacedEvent is published after an order is created. It carries
// enough for downstream consumers to notify or aggregate without
// querying the primary database.
type OrderPlacedEvent struct {
	OrderID   string  `json:"order_id"`
	UserID    string  `json:"user_id"`
	Email     string  `json:"email"`
	TotalCost float64 `json:"total_cost"`
	Status    string  `json:"status"`
	PlacedAt  string  `json:"placed_at"`
}

// UserDeletedEvent is published after an account and everything it
// owned were removed.
type UserDeletedEvent struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	DeletedAt string `json:"deleted_at"`
}
