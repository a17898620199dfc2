package repositories

import (
	"fmt"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/pagination"
)

// Product sort orders accepted by List.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNameAsc   = "name_asc"
	SortNameDesc  = "name_desc"
)

// ProductFilter narrows a product listing. Zero values disable a filter;
// an empty Sort keeps insertion order.
type ProductFilter struct {
	Search   string
	Category string
	Sort     string
}

// Validate rejects unknown sort orders.
func (f ProductFilter) Validate() error {
	switch f.Sort {
	case "", SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return nil
	}
	return fmt.Errorf("%w: unknown sort %q", apperrors.ErrValidation, f.Sort)
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	List(filter ProductFilter, page, limit int) (pagination.Page[models.Product], error)
	GetByID(id string) (*models.Product, error)
	GetFeatured() ([]models.Product, error)
	GetCategories() ([]string, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	// AdjustStock adds delta to the product's stock and fails with
	// apperrors.ErrOutOfStock if the result would be negative.
	AdjustStock(id string, delta int) error
}

func productNotFound(id string) error {
	return fmt.Errorf("%w: product with ID %s", apperrors.ErrNotFound, id)
}
