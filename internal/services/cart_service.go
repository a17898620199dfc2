package services

import (
	"errors"
	"fmt"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// CartService handles business logic related to carts.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
	pricing  Pricing
	locks    *userLocks
}

// NewCartService creates a new CartService.
func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository, pricing Pricing) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		pricing:  pricing,
		locks:    newUserLocks(),
	}
}

// AddItem puts quantity units of a product in the user's cart. A quantity
// above the product's stock fails with apperrors.ErrOutOfStock. If the
// product is already in the cart the quantities are summed, capped at the
// available stock, and the original price snapshot is kept.
func (s *CartService) AddItem(userID, productID string, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer, got %d", apperrors.ErrValidation, quantity)
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	product, err := s.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, fmt.Errorf("%w: product %s has %d in stock, requested %d",
			apperrors.ErrOutOfStock, product.Name, product.Stock, quantity)
	}

	item, err := s.carts.FindByProduct(userID, productID)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		item = &models.CartItem{
			UserID:      userID,
			ProductID:   productID,
			ProductName: product.Name,
			Quantity:    quantity,
			Price:       product.Price,
		}
	case err != nil:
		return nil, fmt.Errorf("failed to look up cart item: %w", err)
	default:
		item.Quantity += quantity
		if item.Quantity > product.Stock {
			item.Quantity = product.Stock
		}
	}

	if err := s.carts.Save(item); err != nil {
		return nil, fmt.Errorf("failed to save cart item: %w", err)
	}
	return item, nil
}

// UpdateQuantity sets the quantity of a cart item. Zero or negative
// quantities are rejected; use RemoveItem to delete a line.
func (s *CartService) UpdateQuantity(userID, itemID string, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer, got %d", apperrors.ErrValidation, quantity)
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	item, err := s.carts.GetItem(userID, itemID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(item.ProductID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, fmt.Errorf("%w: %w: product %s has %d in stock, requested %d",
			apperrors.ErrOutOfStock, apperrors.ErrValidation, product.Name, product.Stock, quantity)
	}

	item.Quantity = quantity
	if err := s.carts.Save(item); err != nil {
		return nil, fmt.Errorf("failed to save cart item: %w", err)
	}
	return item, nil
}

// RemoveItem deletes a line from the cart. Removing an absent item succeeds.
func (s *CartService) RemoveItem(userID, itemID string) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	return s.carts.Remove(userID, itemID)
}

// Clear empties the user's cart.
func (s *CartService) Clear(userID string) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	return s.carts.Clear(userID)
}

// GetCart returns the priced view of the user's cart. Line totals use the
// price captured when each item was added, not the live product price.
func (s *CartService) GetCart(userID string) (*models.Cart, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	return s.cart(userID)
}

// cart builds the cart view; callers hold the user's lock.
func (s *CartService) cart(userID string) (*models.Cart, error) {
	items, err := s.carts.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return s.pricing.PriceCart(userID, items), nil
}
