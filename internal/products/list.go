package product

import (
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

// ProductListFilters describe the supported filter knobs for the browse endpoint.
type ProductListFilters struct {
	Category *enums.ProductCategory
	Query    string
}

// ListProductsInput captures the inputs needed to filter and page the catalog.
type ListProductsInput struct {
	Filters    ProductListFilters
	Pagination pagination.Params
}

// ProductListResult is one page of the catalog. NextCursor is empty on the last page.
type ProductListResult struct {
	Products   []ProductDTO
	NextCursor string
}
