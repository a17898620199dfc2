package repositories

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

var productOrderClauses = map[string]string{
	"":            "created_at ASC, id ASC",
	SortPriceAsc:  "price ASC, created_at ASC",
	SortPriceDesc: "price DESC, created_at ASC",
	SortNameAsc:   "LOWER(name) ASC, created_at ASC",
	SortNameDesc:  "LOWER(name) DESC, created_at ASC",
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Order(productOrderClauses[""]).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// List retrieves one page of products matching filter.
func (r *GORMProductRepository) List(filter ProductFilter, page, limit int) (pagination.Page[models.Product], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Page[models.Product]{}, err
	}

	query := r.db.Model(&models.Product{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return pagination.Page[models.Product]{}, fmt.Errorf("failed to count products: %w", err)
	}

	query = query.Order(productOrderClauses[filter.Sort])
	if limit > 0 {
		query = query.Offset(pagination.Offset(page, limit)).Limit(limit)
	}
	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return pagination.Page[models.Product]{}, fmt.Errorf("failed to list products: %w", err)
	}

	if limit <= 0 {
		return pagination.Paginate(products, 1, 0), nil
	}
	return pagination.NewPage(products, int(total), page, limit), nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, productNotFound(id)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetFeatured retrieves every featured product.
func (r *GORMProductRepository) GetFeatured() ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := r.db.Where("featured = ?", true).Order(productOrderClauses[""]).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get featured products: %w", err)
	}
	return products, nil
}

// GetCategories retrieves the distinct categories in the order they first appeared.
func (r *GORMProductRepository) GetCategories() ([]string, error) {
	var rows []string
	err := r.db.Model(&models.Product{}).
		Where("category <> ''").
		Order(productOrderClauses[""]).
		Pluck("category", &rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	seen := make(map[string]bool, len(rows))
	categories := make([]string, 0)
	for _, c := range rows {
		if !seen[c] {
			seen[c] = true
			categories = append(categories, c)
		}
	}
	return categories, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	existing, err := r.GetByID(product.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: product with ID %s for update", apperrors.ErrNotFound, product.ID)
		}
		return err
	}
	product.CreatedAt = existing.CreatedAt
	if err := r.db.Save(product).Error; err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product with ID %s for deletion", apperrors.ErrNotFound, id)
	}
	return nil
}

// AdjustStock adds delta to the product's stock in a single conditional
// UPDATE so concurrent reservations cannot drive it negative.
func (r *GORMProductRepository) AdjustStock(id string, delta int) error {
	res := r.db.Model(&models.Product{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("failed to adjust stock for product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	product, err := r.GetByID(id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: product %s has %d in stock, requested %d",
		apperrors.ErrOutOfStock, product.Name, product.Stock, -delta)
}
