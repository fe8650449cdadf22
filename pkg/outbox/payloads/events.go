package payloads

import (
	"time"

	"github.com/google/uuid"
)

// OrderCreatedEvent announces a completed checkout.
type OrderCreatedEvent struct {
	OrderID   uuid.UUID          `json:"orderId"`
	UserID    uuid.UUID          `json:"userId"`
	Total     string             `json:"total"`
	ItemCount int                `json:"itemCount"`
	Lines     []OrderCreatedLine `json:"lines"`
	CreatedAt time.Time          `json:"createdAt"`
}

// OrderCreatedLine is one snapshotted line of the new order.
type OrderCreatedLine struct {
	ProductID *uuid.UUID `json:"productId,omitempty"`
	Title     string     `json:"title"`
	Price     string     `json:"price"`
	Quantity  int        `json:"quantity"`
}
