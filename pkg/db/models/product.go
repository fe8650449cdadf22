package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// Product is a catalog listing owned by its seller.
type Product struct {
	ID          uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID    uuid.UUID              `gorm:"column:seller_id;type:uuid;not null;index"`
	Title       string                 `gorm:"column:title;not null"`
	Description string                 `gorm:"column:description;not null"`
	Price       decimal.Decimal        `gorm:"column:price;type:numeric(12,2);not null"`
	ImageURL    string                 `gorm:"column:image_url;not null"`
	Category    enums.ProductCategory  `gorm:"column:category;type:text;not null"`
	Condition   enums.ProductCondition `gorm:"column:condition;type:text;not null"`
	Quantity    int                    `gorm:"column:quantity;not null"`
	BlurHash    string                 `gorm:"column:blur_hash;not null"`

	Brand                       *string  `gorm:"column:brand"`
	ModelName                   *string  `gorm:"column:model"`
	YearOfManufacture           *int     `gorm:"column:year_of_manufacture"`
	Length                      *float64 `gorm:"column:length"`
	Width                       *float64 `gorm:"column:width"`
	Height                      *float64 `gorm:"column:height"`
	Weight                      *float64 `gorm:"column:weight"`
	Material                    *string  `gorm:"column:material"`
	Color                       *string  `gorm:"column:color"`
	HasOriginalPackaging        *bool    `gorm:"column:has_original_packaging"`
	HasManual                   *bool    `gorm:"column:has_manual"`
	WorkingConditionDescription *string  `gorm:"column:working_condition_description"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}
