package repositories_test

import (
	"testing"
	"time"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockOrderRepository_ListByUserNewestFirst(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, userID := range []string{"u1", "u2", "u1", "u1"} {
		order := &models.Order{
			UserID:    userID,
			Status:    models.OrderStatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(order))
	}

	orders, err := repo.ListByUser("u1")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "ORD-000004", orders[0].OrderNumber)
	assert.Equal(t, "ORD-000003", orders[1].OrderNumber)
	assert.Equal(t, "ORD-000001", orders[2].OrderNumber)

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestMockOrderRepository_StoredItemsAreIsolated(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	order := &models.Order{UserID: "u1", Items: []models.OrderItem{{ProductID: "p1", Quantity: 2}}}
	require.NoError(t, repo.Create(order))

	order.Items[0].Quantity = 99
	got, err := repo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Items[0].Quantity)

	got.Items[0].Quantity = 42
	again, _ := repo.GetByID(order.ID)
	assert.Equal(t, 2, again.Items[0].Quantity)
}

func TestMockOrderRepository_CreateNumbersOnlyStoredOrders(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	first := &models.Order{ID: "o1", UserID: "u1"}
	require.NoError(t, repo.Create(first))
	assert.Equal(t, "ORD-000001", first.OrderNumber)

	err := repo.Create(&models.Order{ID: "o1", UserID: "u1"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	second := &models.Order{UserID: "u1"}
	require.NoError(t, repo.Create(second))
	assert.Equal(t, "ORD-000002", second.OrderNumber)

	imported := &models.Order{UserID: "u1", OrderNumber: "LEGACY-7"}
	require.NoError(t, repo.Create(imported))
	assert.Equal(t, "LEGACY-7", imported.OrderNumber)
}

func TestMockOrderRepository_UpdateStatus(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	order := &models.Order{UserID: "u1", Status: models.OrderStatusPending}
	require.NoError(t, repo.Create(order))

	updated, err := repo.UpdateStatus(order.ID, models.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)
	assert.NotNil(t, updated.CancelledAt)

	_, err = repo.UpdateStatus("missing", models.OrderStatusShipped)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
