package repositories

import "storefront/internal/models"

// CartRepository defines the interface for cart item storage. Business rules
// (stock checks, merging, totals) live in services.CartService.
type CartRepository interface {
	// ListByUser returns the user's items in the order they were added.
	ListByUser(userID string) ([]models.CartItem, error)
	FindByProduct(userID, productID string) (*models.CartItem, error)
	GetItem(userID, itemID string) (*models.CartItem, error)
	// Save inserts the item, or replaces the stored item with the same ID.
	Save(item *models.CartItem) error
	// Remove deletes an item. Removing an absent item is not an error.
	Remove(userID, itemID string) error
	// Clear deletes all of the user's items. Clearing an empty cart is not an error.
	Clear(userID string) error
	// Restore replaces the user's items with items.
	Restore(userID string, items []models.CartItem) error
}
