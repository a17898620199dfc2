package services_test

import (
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishOrderEvent(event models.OrderEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

type storeFixture struct {
	products  *repositories.MockProductRepository
	carts     *repositories.MockCartRepository
	orders    repositories.OrderRepository
	publisher *MockEventPublisher
	cart      *services.CartService
	order     *services.OrderService
}

func newStoreFixture(t *testing.T) *storeFixture {
	return newStoreFixtureWithOrders(t, repositories.NewMockOrderRepository())
}

func newStoreFixtureWithOrders(t *testing.T, orders repositories.OrderRepository) *storeFixture {
	t.Helper()
	f := &storeFixture{
		products:  repositories.NewMockProductRepository(),
		carts:     repositories.NewMockCartRepository(),
		orders:    orders,
		publisher: new(MockEventPublisher),
	}
	f.publisher.On("PublishOrderEvent", mock.Anything).Return(nil).Maybe()
	f.cart = services.NewCartService(f.carts, f.products, services.DefaultPricing())
	f.order = services.NewOrderService(f.orders, f.products, f.cart, f.publisher)
	return f
}

func (f *storeFixture) addProduct(t *testing.T, id, name, price string, stock int) {
	t.Helper()
	require.NoError(t, f.products.Create(&models.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: "test",
		Stock:    stock,
	}))
}

func (f *storeFixture) setPrice(t *testing.T, id, price string) {
	t.Helper()
	p, err := f.products.GetByID(id)
	require.NoError(t, err)
	p.Price = decimal.RequireFromString(price)
	require.NoError(t, f.products.Update(p))
}

func (f *storeFixture) setStock(t *testing.T, id string, stock int) {
	t.Helper()
	p, err := f.products.GetByID(id)
	require.NoError(t, err)
	p.Stock = stock
	require.NoError(t, f.products.Update(p))
}

func (f *storeFixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.products.GetByID(id)
	require.NoError(t, err)
	return p.Stock
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testAddress() models.Address {
	return models.Address{Street: "1 Main St", City: "Springfield", State: "IL", Zip: "62701", Country: "US"}
}
