package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is keyed by (user_id, product_id); quantity is replaced on upsert.
type CartItem struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	Quantity  int       `gorm:"column:quantity;not null"`
	AddedAt   time.Time `gorm:"column:added_at;not null"`
	Product   *Product  `gorm:"foreignKey:ProductID;references:ID"`
}
