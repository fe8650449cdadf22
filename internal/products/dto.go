package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/validation"
)

// FallbackBlurHash is stored when the client does not supply a placeholder.
const FallbackBlurHash = "L6Pj0^i_.AyE_3t7t7Rk00t7%Mxu"

const defaultQuantity = 1

// ProductDTO represents the product payload returned to clients.
type ProductDTO struct {
	ID          uuid.UUID `json:"id"`
	SellerID    uuid.UUID `json:"sellerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"imageUrl"`
	Category    string    `json:"category"`
	Condition   string    `json:"condition"`
	Quantity    int       `json:"quantity"`
	BlurHash    string    `json:"blurHash"`
	Attributes
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Attributes are the optional physical details a seller may describe.
type Attributes struct {
	Brand                       *string  `json:"brand,omitempty"`
	Model                       *string  `json:"model,omitempty"`
	YearOfManufacture           *int     `json:"yearOfManufacture,omitempty" validate:"omitempty,gte=1800,lte=2100"`
	Length                      *float64 `json:"length,omitempty" validate:"omitempty,gte=0"`
	Width                       *float64 `json:"width,omitempty" validate:"omitempty,gte=0"`
	Height                      *float64 `json:"height,omitempty" validate:"omitempty,gte=0"`
	Weight                      *float64 `json:"weight,omitempty" validate:"omitempty,gte=0"`
	Material                    *string  `json:"material,omitempty"`
	Color                       *string  `json:"color,omitempty"`
	HasOriginalPackaging        *bool    `json:"hasOriginalPackaging,omitempty"`
	HasManual                   *bool    `json:"hasManual,omitempty"`
	WorkingConditionDescription *string  `json:"workingConditionDescription,omitempty"`
}

// CreateProductInput holds the payload to list a new product.
type CreateProductInput struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Condition   *string         `json:"condition,omitempty"`
	Quantity    *int            `json:"quantity,omitempty"`
	BlurHash    *string         `json:"blurHash,omitempty"`
	Attributes
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	ImageURL    *string          `json:"imageUrl,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Condition   *string          `json:"condition,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	BlurHash    *string          `json:"blurHash,omitempty"`
	Attributes
}

func (in CreateProductInput) Validate() error {
	errs := validation.Errors{}
	checkTitle(errs, in.Title)
	checkDescription(errs, in.Description)
	checkPrice(errs, in.Price)
	checkImageURL(errs, in.ImageURL)
	checkCategory(errs, in.Category)
	if in.Condition != nil {
		checkCondition(errs, *in.Condition)
	}
	if in.Quantity != nil {
		checkQuantity(errs, *in.Quantity)
	}
	return errs.Err()
}

func (in UpdateProductInput) Validate() error {
	errs := validation.Errors{}
	if in.Title != nil {
		checkTitle(errs, *in.Title)
	}
	if in.Description != nil {
		checkDescription(errs, *in.Description)
	}
	if in.Price != nil {
		checkPrice(errs, *in.Price)
	}
	if in.ImageURL != nil {
		checkImageURL(errs, *in.ImageURL)
	}
	if in.Category != nil {
		checkCategory(errs, *in.Category)
	}
	if in.Condition != nil {
		checkCondition(errs, *in.Condition)
	}
	if in.Quantity != nil {
		checkQuantity(errs, *in.Quantity)
	}
	return errs.Err()
}

func checkTitle(errs validation.Errors, v string) {
	errs.Check(validation.MinLen(v, 3), "title", "Title must be at least 3 characters long")
}

func checkDescription(errs validation.Errors, v string) {
	errs.Check(validation.MinLen(v, 10), "description", "Description must be at least 10 characters long")
}

// maxPrice is the largest value a numeric(12,2) price column holds.
var maxPrice = decimal.RequireFromString("9999999999.99")

func checkPrice(errs validation.Errors, v decimal.Decimal) {
	errs.Check(v.IsPositive(), "price", "Price must be a positive number")
	errs.Check(v.Equal(v.Round(2)), "price", "Price must have at most 2 decimal places")
	errs.Check(v.LessThanOrEqual(maxPrice), "price", "Price must not exceed 9999999999.99")
}

func checkImageURL(errs validation.Errors, v string) {
	errs.Check(validation.IsURL(v), "imageUrl", "Image URL must be a valid URL")
}

func checkCategory(errs validation.Errors, v string) {
	errs.Check(enums.ProductCategory(v).IsValid(), "category", "Invalid category")
}

func checkCondition(errs validation.Errors, v string) {
	errs.Check(enums.ProductCondition(v).IsValid(), "condition", "Invalid condition")
}

func checkQuantity(errs validation.Errors, v int) {
	errs.Check(v >= 0, "quantity", "Quantity must be zero or more")
}

func (in CreateProductInput) toModel(sellerID uuid.UUID) *models.Product {
	product := &models.Product{
		SellerID:    sellerID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Category:    enums.ProductCategory(in.Category),
		Condition:   enums.ProductConditionGood,
		Quantity:    defaultQuantity,
		BlurHash:    FallbackBlurHash,
	}
	if in.Condition != nil {
		product.Condition = enums.ProductCondition(*in.Condition)
	}
	if in.Quantity != nil {
		product.Quantity = *in.Quantity
	}
	if in.BlurHash != nil && *in.BlurHash != "" {
		product.BlurHash = *in.BlurHash
	}
	in.Attributes.applyTo(product)
	return product
}

func applyUpdateToProduct(product *models.Product, in UpdateProductInput) {
	if in.Title != nil {
		product.Title = *in.Title
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.Category != nil {
		product.Category = enums.ProductCategory(*in.Category)
	}
	if in.Condition != nil {
		product.Condition = enums.ProductCondition(*in.Condition)
	}
	if in.Quantity != nil {
		product.Quantity = *in.Quantity
	}
	if in.BlurHash != nil && *in.BlurHash != "" {
		product.BlurHash = *in.BlurHash
	}
	in.Attributes.applyTo(product)
}

// applyTo copies every attribute that was supplied; nil leaves the column alone.
func (a Attributes) applyTo(product *models.Product) {
	if a.Brand != nil {
		product.Brand = a.Brand
	}
	if a.Model != nil {
		product.ModelName = a.Model
	}
	if a.YearOfManufacture != nil {
		product.YearOfManufacture = a.YearOfManufacture
	}
	if a.Length != nil {
		product.Length = a.Length
	}
	if a.Width != nil {
		product.Width = a.Width
	}
	if a.Height != nil {
		product.Height = a.Height
	}
	if a.Weight != nil {
		product.Weight = a.Weight
	}
	if a.Material != nil {
		product.Material = a.Material
	}
	if a.Color != nil {
		product.Color = a.Color
	}
	if a.HasOriginalPackaging != nil {
		product.HasOriginalPackaging = a.HasOriginalPackaging
	}
	if a.HasManual != nil {
		product.HasManual = a.HasManual
	}
	if a.WorkingConditionDescription != nil {
		product.WorkingConditionDescription = a.WorkingConditionDescription
	}
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:          product.ID,
		SellerID:    product.SellerID,
		Title:       product.Title,
		Description: product.Description,
		Price:       product.Price.InexactFloat64(),
		ImageURL:    product.ImageURL,
		Category:    string(product.Category),
		Condition:   string(product.Condition),
		Quantity:    product.Quantity,
		BlurHash:    product.BlurHash,
		Attributes: Attributes{
			Brand:                       product.Brand,
			Model:                       product.ModelName,
			YearOfManufacture:           product.YearOfManufacture,
			Length:                      product.Length,
			Width:                       product.Width,
			Height:                      product.Height,
			Weight:                      product.Weight,
			Material:                    product.Material,
			Color:                       product.Color,
			HasOriginalPackaging:        product.HasOriginalPackaging,
			HasManual:                   product.HasManual,
			WorkingConditionDescription: product.WorkingConditionDescription,
		},
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}

func newProductDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewProductDTO(&rows[i]))
	}
	return out
}
