package repository_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryOrderRepository(t *testing.T) {
	ctx := t.Context()
	repo := repository.NewMemoryOrder()
	ownerID := gofakeit.UUID()

	_, err := repo.CreateOrder(ctx, randomOrder("", 1))
	require.EqualError(t, err, "ownerID is empty")

	_, err = repo.CreateOrder(ctx, randomOrder(ownerID, 0))
	require.EqualError(t, err, "order has no items")

	order := randomOrder(ownerID, 2)
	id, err := repo.CreateOrder(ctx, order)
	require.NoError(t, err)

	got, err := repo.GetOrder(ctx, ownerID, id)
	require.NoError(t, err)
	order.ID = id
	order.Status = "completed"
	assertOrder(t, order, got)

	dup := order
	_, err = repo.CreateOrder(ctx, dup)
	require.Error(t, err)

	_, err = repo.GetOrder(ctx, ownerID, uuid.New())
	require.ErrorIs(t, err, port.ErrNotFound)

	zero := randomOrder(ownerID, 1)
	zero.Items[0].Quantity = 0
	_, err = repo.CreateOrder(ctx, zero)
	require.EqualError(t, err, "item[0] quantity[0] is not positive")

	newer, err := repo.CreateOrder(ctx, randomOrder(ownerID, 1))
	require.NoError(t, err)

	orders, err := repo.ListOrders(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer, orders[0].ID)
	assert.Equal(t, id, orders[1].ID)

	orders, err = repo.ListOrders(ctx, gofakeit.UUID())
	require.NoError(t, err)
	assert.Empty(t, orders)
}
