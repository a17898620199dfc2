package repositories

import (
	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	// ListByUser returns the user's orders, newest first.
	ListByUser(userID string) ([]models.Order, error)
	// Create stores an order. An order without an OrderNumber gets the next
	// one in sequence (ORD-000001, ORD-000002, ...); numbers are only used up
	// by orders that are actually stored.
	Create(order *models.Order) error
	UpdateStatus(id string, status models.OrderStatus) (*models.Order, error)
}
