package services_test

import (
	"errors"
	"testing"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// failingOrderRepository refuses to store orders.
type failingOrderRepository struct {
	*repositories.MockOrderRepository
}

func (r failingOrderRepository) Create(order *models.Order) error {
	return errors.New("disk full")
}

func TestOrderService_CreateFromCartRoundTrip(t *testing.T) {
	f := newStoreFixture(t)
	f.addProduct(t, "A", "Product A", "10.00", 5)
	f.addProduct(t, "B", "Product B", "4.50", 8)
	_, err := f.cart.AddItem("U1", "A", 3)
	require.NoError(t, err)
	_, err = f.cart.AddItem("U1", "B", 2)
	require.NoError(t, err)
	before, _ := f.cart.GetCart("U1")

	order, err := f.order.CreateFromCart("U1", testAddress(), "card")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "ORD-000001", order.OrderNumber)
	assert.NotEmpty(t, order.ID)
	assert.True(t, order.Subtotal.Equal(before.Subtotal))
	assert.True(t, order.Total.Equal(order.Subtotal.Add(order.Tax).Add(order.Shipping)))
	assert.True(t, order.Total.Equal(before.Total))

	after, _ := f.cart.GetCart("U1")
	assert.Empty(t, after.Items)
	assert.Equal(t, 2, f.stock(t, "A"))
	assert.Equal(t, 6, f.stock(t, "B"))

	// Later product changes do not leak into the stored order.
	f.setPrice(t, "A", "99.00")
	f.setStock(t, "A", 0)

	page, err := f.order.ListByUser("U1", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	stored := page.Data[0]
	require.Len(t, stored.Items, len(before.Items))
	for i, ci := range before.Items {
		assert.Equal(t, ci.ProductID, stored.Items[i].ProductID)
		assert.Equal(t, ci.Quantity, stored.Items[i].Quantity)
		assert.True(t, ci.Price.Equal(stored.Items[i].Price))
		assert.True(t, ci.LineTotal().Equal(stored.Items[i].Subtotal))
	}
	assert.Equal(t, "Product A", stored.Items[0].ProductName)

	f.publisher.AssertCalled(t, "PublishOrderEvent", mock.MatchedBy(func(e models.OrderEvent) bool {
		return e.Type == models.OrderEventCreated && e.OrderID == order.ID && e.UserID == "U1"
	}))
}

func TestOrderService_EmptyCartCheckoutFails(t *testing.T) {
	f := newStoreFixture(t)

	_, err := f.order.CreateFromCart("U2", testAddress(), "card")
	assert.ErrorIs(t, err, apperrors.ErrEmptyCart)

	page, err := f.order.ListByUser("U2", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	f.publisher.AssertNotCalled(t, "PublishOrderEvent", mock.Anything)
}

func TestOrderService_CheckoutValidatesInput(t *testing.T) {
	f := newStoreFixture(t)
	f.addProduct(t, "A", "Product A", "10.00", 5)
	_, err := f.cart.AddItem("U1", "A", 1)
	require.NoError(t, err)

	addr := testAddress()
	addr.Zip = " "
	_, err = f.order.CreateFromCart("U1", addr, "card")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.order.CreateFromCart("U1", testAddress(), "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	cart, _ := f.cart.GetCart("U1")
	assert.Len(t, cart.Items, 1)
}

func TestOrderService_CheckoutRollsBackWhenStockRunsOut(t *testing.T) {
	f := newStoreFixture(t)
	f.addProduct(t, "A", "Product A", "10.00", 5)
	f.addProduct(t, "B", "Product B", "4.50", 8)
	_, err := f.cart.AddItem("U1", "A", 2)
	require.NoError(t, err)
	_, err = f.cart.AddItem("U1", "B", 3)
	require.NoError(t, err)
	before, _ := f.cart.GetCart("U1")

	// Someone else bought most of B in the meantime.
	f.setStock(t, "B", 1)

	_, err = f.order.CreateFromCart("U1", testAddress(), "card")
	assert.ErrorIs(t, err, apperrors.ErrOutOfStock)

	after, _ := f.cart.GetCart("U1")
	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, 5, f.stock(t, "A"))
	assert.Equal(t, 1, f.stock(t, "B"))

	page, _ := f.order.ListByUser("U1", 1, 0)
	assert.Empty(t, page.Data)
	f.publisher.AssertNotCalled(t, "PublishOrderEvent", mock.Anything)
}

func TestOrderService_RolledBackCheckoutKeepsNumbering(t *testing.T) {
	f := newStoreFixture(t)
	f.addProduct(t, "A", "Product A", "10.00", 5)
	f.addProduct(t, "B", "Product B", "4.50", 8)
	_, err := f.cart.AddItem("U1", "A", 2)
	require.NoError(t, err)
	_, err = f.cart.AddItem("U1", "B", 3)
	require.NoError(t, err)

	f.setStock(t, "B", 1)
	_, err = f.order.CreateFromCart("U1", testAddress(), "card")
	require.ErrorIs(t, err, apperrors.ErrOutOfStock)

	f.setStock(t, "B", 8)
	order, err := f.order.CreateFromCart("U1", testAddress(), "card")
	require.NoError(t, err)
	assert.Equal(t, "ORD-000001", order.OrderNumber)

	_, err = f.cart.AddItem("U1", "A", 1)
	require.NoError(t, err)
	next, err := f.order.CreateFromCart("U1", testAddress(), "card")
	require.NoError(t, err)
	assert.Equal(t, "ORD-000002", next.OrderNumber)
}

func TestOrderService_LineSubtotalsAddUpToOrderSubtotal(t *testing.T) {
	f := newStoreFixture(t)
	f.addProduct(t, "A", "Product A", "1.005", 5)
	f.addProduct(t, "B", "Product B", "2.125", 5)
	_, err := f.cart.AddItem("U1", "A", 1)
	require.NoError(t, err)
	_, err = f.cart.AddItem("U1", "B", 1)
	require.NoError(t, err)

	order, err := f.order.CreateFromCart("U1", testAddress(), "card")
	require.NoError(t, err)

	sum := dec("0")
	for _, item := range order.Items {
		sum = sum.Add(item.Subtotal)
	}
	assert.True(t, order.Subtotal.Equal(sum), "lines %s, order %s", sum, order.Subtotal)
	assert.True(t, order.Subtotal.Equal(dec("3.14")), "subtotal %s", order.Subtotal)
	assert.True(t, order.Total.Equal(order.Subtotal.Add(order.Tax).Add(order.Shipping)))
}

func TestOrderService_CheckoutRollsBackWhenOrderCannotBeStored(t *testing.T) {
	f := newStoreFixtureWithOrders(t, failingOrderRepository{repositories.NewMockOrderRepository()})
	f.addProduct(t, "A", "Product A", "10.00", 5)
	_, err := f.cart.AddItem("U1", "A", 2)
	require.NoError(t, err)

	_, err = f.order.CreateFromCart("U1", testAddress(), "card")
	assert.ErrorContains(t, err, "disk full")

	cart, _ := f.cart.GetCart("U1")
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 5, f.stock(t, "A"))
}

func TestOrderService_PublishFailureDoesNotFailCheckout(t *testing.T) {
	f := newStoreFixture(t)
	publisher := new(MockEventPublisher)
	publisher.On("PublishOrderEvent", mock.Anything).Return(errors.New("broker down"))
	orders := services.NewOrderService(f.orders, f.products, f.cart, publisher)

	f.addProduct(t, "A", "Product A", "10.00", 5)
	_, err := f.cart.AddItem("U1", "A", 1)
	require.NoError(t, err)

	order, err := orders.CreateFromCart("U1", testAddress(), "card")
	require.NoError(t, err)
	assert.NotNil(t, order)
	publisher.AssertNumberOfCalls(t, "PublishOrderEvent", 1)
}

func TestOrderService_WorksWithoutPublisher(t *testing.T) {
	f := newStoreFixture(t)
	orders := services.NewOrderService(f.orders, f.products, f.cart, nil)
	f.addProduct(t, "A", "Product A", "10.00", 5)
	_, err := f.cart.AddItem("U1", "A", 1)
	require.NoError(t, err)

	order, err := orders.CreateFromCart("U1", testAddress(), "card")
	require.NoError(t, err)
	_, err = orders.CancelOrder(order.ID)
	require.NoError(t, err)
}

func checkout(t *testing.T, f *storeFixture, userID string, quantity int) *models.Order {
	t.Helper()
	_, err := f.cart.AddItem(userID, "A", quantity)
	require.NoError(t, err)
	order, err := f.order.CreateFromCart(userID, testAddress(), "card")
	require.NoError(t, err)
	return order
}

func TestOrderService_CancelRestocks(t *testing.T) {
	f := newStoreFixture(t)
	f.addProduct(t, "A", "Product A", "10.00", 5)
	order := checkout(t, f, "U1", 3)
	assert.Equal(t, 2, f.stock(t, "A"))

	cancelled, err := f.order.CancelOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, 5, f.stock(t, "A"))

	_, err = f.order.CancelOrder(order.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, 5, f.stock(t, "A"))

	_, err = f.order.CancelOrder("missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOrderService_CancelDeliveredOrderFails(t *testing.T) {
	f := newStoreFixture(t)
	f.addProduct(t, "A", "Product A", "10.00", 5)
	order := checkout(t, f, "U1", 1)

	_, err := f.order.UpdateOrderStatus(order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)

	_, err = f.order.CancelOrder(order.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	got, err := f.order.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, got.Status)
}

func TestOrderService_UpdateStatusTransitions(t *testing.T) {
	f := newStoreFixture(t)
	f.addProduct(t, "A", "Product A", "10.00", 10)
	order := checkout(t, f, "U1", 1)

	updated, err := f.order.UpdateOrderStatus(order.ID, models.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, updated.Status)

	updated, err = f.order.UpdateOrderStatus(order.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)

	_, err = f.order.UpdateOrderStatus(order.ID, models.OrderStatusProcessing)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	_, err = f.order.UpdateOrderStatus(order.ID, models.OrderStatusShipped)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	_, err = f.order.UpdateOrderStatus(order.ID, models.OrderStatusCancelled)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	_, err = f.order.UpdateOrderStatus(order.ID, models.OrderStatus("teleported"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = f.order.UpdateOrderStatus("missing", models.OrderStatusDelivered)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	second := checkout(t, f, "U1", 2)
	assert.Equal(t, 7, f.stock(t, "A"))
	cancelled, err := f.order.UpdateOrderStatus(second.ID, models.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 9, f.stock(t, "A"))

	_, err = f.order.UpdateOrderStatus(second.ID, models.OrderStatusDelivered)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	f.publisher.AssertCalled(t, "PublishOrderEvent", mock.MatchedBy(func(e models.OrderEvent) bool {
		return e.Type == models.OrderEventStatusChanged && e.OrderID == order.ID && e.Status == models.OrderStatusShipped
	}))
}

func TestOrderService_ListByUserNewestFirstAndPaged(t *testing.T) {
	f := newStoreFixture(t)
	f.addProduct(t, "A", "Product A", "10.00", 100)
	first := checkout(t, f, "U1", 1)
	second := checkout(t, f, "U1", 2)
	checkout(t, f, "U2", 1)
	third := checkout(t, f, "U1", 3)

	page, err := f.order.ListByUser("U1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Data, 2)
	assert.Equal(t, third.ID, page.Data[0].ID)
	assert.Equal(t, second.ID, page.Data[1].ID)

	page, err = f.order.ListByUser("U1", 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, first.ID, page.Data[0].ID)
}

func TestOrderService_GetOrderForUserHidesOtherUsers(t *testing.T) {
	f := newStoreFixture(t)
	f.addProduct(t, "A", "Product A", "10.00", 10)
	order := checkout(t, f, "U1", 1)

	got, err := f.order.GetOrderForUser("U1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = f.order.GetOrderForUser("U2", order.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
