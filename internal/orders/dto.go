package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

// OrderDTO is a frozen purchase with its snapshotted lines.
type OrderDTO struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"userId"`
	Total     float64        `json:"total"`
	CreatedAt time.Time      `json:"createdAt"`
	Items     []OrderItemDTO `json:"items"`
}

// OrderItemDTO is one purchased line. ProductID is null once the product is deleted.
type OrderItemDTO struct {
	ID        uuid.UUID  `json:"id"`
	ProductID *uuid.UUID `json:"productId"`
	Title     string     `json:"title"`
	Price     float64    `json:"price"`
	ImageURL  string     `json:"imageUrl"`
	Quantity  int        `json:"quantity"`
}

// NewOrderDTO maps an order and whatever items are attached to it.
func NewOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:        order.ID,
		UserID:    order.UserID,
		Total:     order.Total.InexactFloat64(),
		CreatedAt: order.CreatedAt,
		Items:     make([]OrderItemDTO, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     item.Price.InexactFloat64(),
			ImageURL:  item.ImageURL,
			Quantity:  item.Quantity,
		})
	}
	return dto
}
