package tracking

import (
	"encoding/json"
	"time"
)

// Aggregate types and event types published by the shop.
const (
	AggregateCart  = "Cart"
	AggregateOrder = "Order"

	EventItemAddedToCart     = "ItemAddedToCart"
	EventItemRemovedFromCart = "ItemRemovedFromCart"
	EventOrderPlaced         = "OrderPlaced"
	EventOrderCancelled      = "OrderCancelled"
)

// SourceEvent is the envelope the shop publishes on its event topic.
type SourceEvent struct {
	ID            string          `json:"id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     string          `json:"event_type"`
	Data          json.RawMessage `json:"data"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
}

type ItemAddedToCart struct {
	CartID    string    `json:"cart_id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     int       `json:"price"`
	AddedAt   time.Time `json:"added_at"`
}

type ItemRemovedFromCart struct {
	CartID    string    `json:"cart_id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	RemovedAt time.Time `json:"removed_at"`
}

type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     int    `json:"price"`
}

type OrderPlaced struct {
	OrderID  string      `json:"order_id"`
	UserID   string      `json:"user_id"`
	Items    []OrderItem `json:"items"`
	Total    int         `json:"total"`
	PlacedAt time.Time   `json:"placed_at"`
}

type OrderCancelled struct {
	OrderID     string    `json:"order_id"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}
