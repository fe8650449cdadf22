// Package helpers turns locked cart rows into the frozen order snapshot.
package helpers

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

// ErrEmptyCart is returned when there is nothing to purchase.
var ErrEmptyCart = errors.New("cart is empty")

// Snapshot is the set of lines and the total captured at checkout time.
type Snapshot struct {
	Lines []Line
	Total decimal.Decimal
}

// Line copies the live product fields a purchased line keeps forever.
type Line struct {
	ProductID uuid.UUID
	Title     string
	Price     decimal.Decimal
	ImageURL  string
	Quantity  int
}

// BuildSnapshot prices each cart row from its preloaded product.
func BuildSnapshot(items []models.CartItem) (Snapshot, error) {
	if len(items) == 0 {
		return Snapshot{}, ErrEmptyCart
	}

	snap := Snapshot{Lines: make([]Line, 0, len(items)), Total: decimal.Zero}
	for _, item := range items {
		if item.Product == nil {
			return Snapshot{}, fmt.Errorf("cart item %s has no product loaded", item.ProductID)
		}
		if item.Quantity < 1 {
			return Snapshot{}, fmt.Errorf("cart item %s has quantity %d", item.ProductID, item.Quantity)
		}
		line := Line{
			ProductID: item.ProductID,
			Title:     item.Product.Title,
			Price:     item.Product.Price,
			ImageURL:  item.Product.ImageURL,
			Quantity:  item.Quantity,
		}
		snap.Lines = append(snap.Lines, line)
		snap.Total = snap.Total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return snap, nil
}

// ProductIDs lists the products the snapshot covers, in line order.
func (s Snapshot) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.Lines))
	for _, line := range s.Lines {
		ids = append(ids, line.ProductID)
	}
	return ids
}

// OrderItems materialises the snapshot as rows for the given order.
func (s Snapshot) OrderItems(orderID uuid.UUID) []models.OrderItem {
	rows := make([]models.OrderItem, 0, len(s.Lines))
	for _, line := range s.Lines {
		productID := line.ProductID
		rows = append(rows, models.OrderItem{
			OrderID:   orderID,
			ProductID: &productID,
			Title:     line.Title,
			Price:     line.Price,
			ImageURL:  line.ImageURL,
			Quantity:  line.Quantity,
		})
	}
	return rows
}
