package cart

import (
	"time"

	"github.com/google/uuid"

	product "github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

// CartItemDTO is one cart line with the live product it points at.
type CartItemDTO struct {
	ProductID uuid.UUID           `json:"productId"`
	Quantity  int                 `json:"quantity"`
	AddedAt   time.Time           `json:"addedAt"`
	Product   *product.ProductDTO `json:"product"`
}

// DefaultQuantity is used when an add-to-cart request omits the quantity.
const DefaultQuantity = 1

// UpsertCartInput sets the quantity of one product in the caller's cart.
type UpsertCartInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// UpsertCartRequest is the POST /cart body.
type UpsertCartRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  *int      `json:"quantity" validate:"omitempty,gte=1"`
}

// Input applies DefaultQuantity when the body has no quantity.
func (r UpsertCartRequest) Input() UpsertCartInput {
	input := UpsertCartInput{ProductID: r.ProductID, Quantity: DefaultQuantity}
	if r.Quantity != nil {
		input.Quantity = *r.Quantity
	}
	return input
}

func newCartItemDTOs(items []models.CartItem) []CartItemDTO {
	out := make([]CartItemDTO, 0, len(items))
	for _, item := range items {
		dto := CartItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			AddedAt:   item.AddedAt,
		}
		if item.Product != nil {
			dto.Product = product.NewProductDTO(item.Product)
		}
		out = append(out, dto)
	}
	return out
}
