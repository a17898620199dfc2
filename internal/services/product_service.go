package services

import (
	"fmt"
	"strings"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/pagination"
	"storefront/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ListProducts returns one page of products matching filter.
func (s *ProductService) ListProducts(filter repositories.ProductFilter, page, limit int) (pagination.Page[models.Product], error) {
	return s.repo.List(filter, page, limit)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// GetFeaturedProducts retrieves every featured product.
func (s *ProductService) GetFeaturedProducts() ([]models.Product, error) {
	return s.repo.GetFeatured()
}

// GetCategories retrieves the distinct product categories.
func (s *ProductService) GetCategories() ([]string, error) {
	return s.repo.GetCategories()
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product. Existing cart lines and orders
// keep the price they captured.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}

func validateProduct(product *models.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	product.Price = product.Price.Round(2)
	switch {
	case product.Name == "":
		return fmt.Errorf("%w: product name is required", apperrors.ErrValidation)
	case product.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", apperrors.ErrValidation)
	case product.Stock < 0:
		return fmt.Errorf("%w: stock must not be negative", apperrors.ErrValidation)
	}
	return nil
}
