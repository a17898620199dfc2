package services

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/pagination"
	"storefront/internal/repositories"

	"github.com/google/uuid"
)

// EventPublisher delivers order events to downstream consumers.
type EventPublisher interface {
	PublishOrderEvent(event models.OrderEvent) error
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	carts       *CartService
	publisher   EventPublisher // nil disables event publishing
	mu          sync.Mutex     // serializes status transitions
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, carts *CartService, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		carts:       carts,
		publisher:   publisher,
	}
}

// CreateFromCart turns the user's cart into a pending order. The cart is
// cleared, stock is reserved and the order is stored as one unit: if any
// step fails the completed ones are undone and the cart is left as it was.
func (s *OrderService) CreateFromCart(userID string, address models.Address, paymentMethod string) (*models.Order, error) {
	if err := validateCheckout(address, paymentMethod); err != nil {
		return nil, err
	}

	unlock := s.carts.locks.lock(userID)
	defer unlock()

	cart, err := s.carts.cart(userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, fmt.Errorf("%w: user %s has nothing to check out", apperrors.ErrEmptyCart, userID)
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, ci := range cart.Items {
		name := ci.ProductName
		product, err := s.productRepo.GetByID(ci.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s in cart: %w", ci.ProductID, err)
		}
		if product.Name != "" {
			name = product.Name
		}
		items = append(items, models.OrderItem{
			ProductID:   ci.ProductID,
			ProductName: name,
			Quantity:    ci.Quantity,
			Price:       ci.Price,
			Subtotal:    ci.LineTotal().Round(2),
		})
	}

	now := time.Now()
	order := &models.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Items:           items,
		Subtotal:        cart.Subtotal,
		Tax:             cart.Tax,
		Shipping:        cart.Shipping,
		Total:           cart.Total,
		Status:          models.OrderStatusPending,
		ShippingAddress: address,
		PaymentMethod:   strings.TrimSpace(paymentMethod),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var tx compensations

	for _, item := range items {
		if err := s.productRepo.AdjustStock(item.ProductID, -item.Quantity); err != nil {
			tx.rollback()
			return nil, fmt.Errorf("failed to reserve stock: %w", err)
		}
		productID, quantity := item.ProductID, item.Quantity
		tx.add("release stock", func() error { return s.productRepo.AdjustStock(productID, quantity) })
	}

	if err := s.carts.carts.Clear(userID); err != nil {
		tx.rollback()
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}
	tx.add("restore cart", func() error { return s.carts.carts.Restore(userID, cart.Items) })

	// Create assigns the order number and must stay the last step.
	if err := s.orderRepo.Create(order); err != nil {
		tx.rollback()
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	log.Printf("Order %s (%s) created for user %s, total %s", order.OrderNumber, order.ID, userID, order.Total.StringFixed(2))
	s.publish(models.OrderEventCreated, order)
	return order, nil
}

func validateCheckout(address models.Address, paymentMethod string) error {
	var missing []string
	for field, value := range map[string]string{
		"street":  address.Street,
		"city":    address.City,
		"state":   address.State,
		"zip":     address.Zip,
		"country": address.Country,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if strings.TrimSpace(paymentMethod) == "" {
		missing = append(missing, "payment_method")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %d checkout field(s)", apperrors.ErrValidation, len(missing))
	}
	return nil
}

// ListByUser returns one page of the user's orders, newest first.
func (s *OrderService) ListByUser(userID string, page, limit int) (pagination.Page[models.Order], error) {
	orders, err := s.orderRepo.ListByUser(userID)
	if err != nil {
		return pagination.Page[models.Order]{}, fmt.Errorf("failed to list orders: %w", err)
	}
	return pagination.Paginate(orders, page, limit), nil
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetOrderForUser retrieves an order owned by userID. Orders of other users
// are reported as not found.
func (s *OrderService) GetOrderForUser(userID, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order with ID %s", apperrors.ErrNotFound, id)
	}
	return order, nil
}

// CancelOrder cancels a pending or processing order and returns its items to
// stock.
func (s *OrderService) CancelOrder(id string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cancel(id)
}

func (s *OrderService) cancel(id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !order.Status.Cancellable() {
		return nil, fmt.Errorf("%w: cannot cancel order %s in status %s",
			apperrors.ErrInvalidTransition, order.OrderNumber, order.Status)
	}

	updated, err := s.orderRepo.UpdateStatus(id, models.OrderStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order %s: %w", id, err)
	}
	for _, item := range order.Items {
		if err := s.productRepo.AdjustStock(item.ProductID, item.Quantity); err != nil {
			// The product may have been deleted since checkout.
			log.Printf("Warning: could not restock product %s for order %s: %v", item.ProductID, order.OrderNumber, err)
		}
	}

	log.Printf("Order %s cancelled", order.OrderNumber)
	s.publish(models.OrderEventStatusChanged, updated)
	return updated, nil
}

// UpdateOrderStatus moves an order forward in its lifecycle. Nothing leaves
// delivered or cancelled, and cancelling follows the CancelOrder rules.
func (s *OrderService) UpdateOrderStatus(id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid order status: %s", apperrors.ErrValidation, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if status == models.OrderStatusCancelled {
		return s.cancel(id)
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: order %s cannot move from %s to %s",
			apperrors.ErrInvalidTransition, order.OrderNumber, order.Status, status)
	}

	updated, err := s.orderRepo.UpdateStatus(id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	s.publish(models.OrderEventStatusChanged, updated)
	return updated, nil
}

// publish sends an order event. Failures are logged and never undo the
// change that triggered them.
func (s *OrderService) publish(eventType string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := models.OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Status:      order.Status,
		Total:       order.Total,
		OccurredAt:  time.Now(),
	}
	if err := s.publisher.PublishOrderEvent(event); err != nil {
		log.Printf("Warning: Failed to publish %s event for order %s: %v", eventType, order.ID, err)
	}
}
