package repositories

import (
	"fmt"
	"sync"
	"time"

	"storefront/internal/apperrors"
	"storefront/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	carts map[string][]models.CartItem
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string][]models.CartItem),
	}
}

// ListByUser returns a copy of the user's items.
func (r *MockCartRepository) ListByUser(userID string) ([]models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]models.CartItem, len(r.carts[userID]))
	copy(items, r.carts[userID])
	return items, nil
}

// FindByProduct returns the user's item for productID.
func (r *MockCartRepository) FindByProduct(userID, productID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.carts[userID] {
		if item.ProductID == productID {
			return &item, nil
		}
	}
	return nil, fmt.Errorf("%w: product %s in cart of user %s", apperrors.ErrNotFound, productID, userID)
}

// GetItem returns the user's item with itemID.
func (r *MockCartRepository) GetItem(userID, itemID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.carts[userID] {
		if item.ID == itemID {
			return &item, nil
		}
	}
	return nil, fmt.Errorf("%w: cart item %s", apperrors.ErrNotFound, itemID)
}

// Save inserts or replaces an item.
func (r *MockCartRepository) Save(item *models.CartItem) error {
	if item.UserID == "" {
		return fmt.Errorf("%w: cart item without user", apperrors.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.carts[item.UserID]
	if item.ID != "" {
		for i := range items {
			if items[i].ID == item.ID {
				items[i] = *item
				return nil
			}
		}
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	r.carts[item.UserID] = append(items, *item)
	return nil
}

// Remove deletes an item if present.
func (r *MockCartRepository) Remove(userID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.carts[userID]
	for i := range items {
		if items[i].ID == itemID {
			r.carts[userID] = append(items[:i:i], items[i+1:]...)
			break
		}
	}
	if len(r.carts[userID]) == 0 {
		delete(r.carts, userID)
	}
	return nil
}

// Clear deletes all items of a user.
func (r *MockCartRepository) Clear(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, userID)
	return nil
}

// Restore replaces the user's items with a copy of items.
func (r *MockCartRepository) Restore(userID string, items []models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(items) == 0 {
		delete(r.carts, userID)
		return nil
	}
	restored := make([]models.CartItem, len(items))
	copy(restored, items)
	r.carts[userID] = restored
	return nil
}
