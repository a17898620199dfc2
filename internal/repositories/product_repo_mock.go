package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/pagination"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// Products are kept in insertion order.
type MockProductRepository struct {
	products []models.Product
	index    map[string]int
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		index: make(map[string]int),
	}
}

// GetAll returns all products in insertion order.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, len(r.products))
	copy(productList, r.products)
	return productList, nil
}

// List returns one page of products matching filter.
func (r *MockProductRepository) List(filter ProductFilter, page, limit int) (pagination.Page[models.Product], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Page[models.Product]{}, err
	}

	r.mu.RLock()
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		matched = append(matched, p)
	}
	r.mu.RUnlock()

	sortProducts(matched, filter.Sort)
	return pagination.Paginate(matched, page, limit), nil
}

// sortProducts sorts in place; the sort is stable so ties keep insertion order.
func sortProducts(products []models.Product, order string) {
	var less func(a, b models.Product) bool
	switch order {
	case SortPriceAsc:
		less = func(a, b models.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceDesc:
		less = func(a, b models.Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortNameAsc:
		less = func(a, b models.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case SortNameDesc:
		less = func(a, b models.Product) bool { return strings.ToLower(a.Name) > strings.ToLower(b.Name) }
	default:
		return
	}
	sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, productNotFound(id)
	}
	product := r.products[i]
	return &product, nil
}

// GetFeatured returns every featured product.
func (r *MockProductRepository) GetFeatured() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	featured := make([]models.Product, 0)
	for _, p := range r.products {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	return featured, nil
}

// GetCategories returns the distinct categories in first-seen order.
func (r *MockProductRepository) GetCategories() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, p := range r.products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, p.Category)
	}
	return categories, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if _, exists := r.index[product.ID]; exists {
		return fmt.Errorf("%w: product with ID %s", apperrors.ErrDuplicate, product.ID)
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.index[product.ID] = len(r.products)
	r.products = append(r.products, *product)
	return nil
}

// Update modifies an existing product, keeping its position and creation time.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[product.ID]
	if !ok {
		return fmt.Errorf("%w: product with ID %s for update", apperrors.ErrNotFound, product.ID)
	}
	product.CreatedAt = r.products[i].CreatedAt
	product.UpdatedAt = time.Now()
	r.products[i] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return fmt.Errorf("%w: product with ID %s for deletion", apperrors.ErrNotFound, id)
	}
	r.products = append(r.products[:i], r.products[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.products); j++ {
		r.index[r.products[j].ID] = j
	}
	return nil
}

// AdjustStock adds delta to a product's stock.
func (r *MockProductRepository) AdjustStock(id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return productNotFound(id)
	}
	next := r.products[i].Stock + delta
	if next < 0 {
		return fmt.Errorf("%w: product %s has %d in stock, requested %d",
			apperrors.ErrOutOfStock, r.products[i].Name, r.products[i].Stock, -delta)
	}
	r.products[i].Stock = next
	r.products[i].UpdatedAt = time.Now()
	return nil
}
