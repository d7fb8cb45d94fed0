package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egannguyen/purchase-orders/internal/entity"
	"github.com/egannguyen/purchase-orders/internal/repository"
	"github.com/egannguyen/purchase-orders/internal/repository/memory"
)

func newOrder(t *testing.T, id string) *entity.Order {
	t.Helper()
	orderID, err := entity.NewOrderID(id)
	require.NoError(t, err)
	order, err := entity.NewOrder(orderID, "USD")
	require.NoError(t, err)

	sku, err := entity.NewSKU("ABC123")
	require.NoError(t, err)
	item, err := entity.NewOrderItem(sku, entity.MustMoney("10.00", "USD"), 2)
	require.NoError(t, err)
	require.NoError(t, order.AddItem(item))
	order.PullEvents()
	return order
}

func TestOrderRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()
	order := newOrder(t, "ORD-100")

	require.NoError(t, repo.Save(ctx, order))
	assert.Equal(t, 1, order.GetVersion())

	loaded, err := repo.FindByID(ctx, order.ID())
	require.NoError(t, err)
	assert.Equal(t, order.ID(), loaded.ID())
	assert.Equal(t, order.Currency(), loaded.Currency())
	assert.Equal(t, order.Items(), loaded.Items())
	assert.Equal(t, 1, loaded.GetVersion())
	assert.Empty(t, loaded.PullEvents())

	exists, err := repo.Exists(ctx, order.ID())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestOrderRepository_FindMissing(t *testing.T) {
	id, err := entity.NewOrderID("ORD-404")
	require.NoError(t, err)
	repo := memory.NewOrderRepository()

	_, err = repo.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)

	exists, err := repo.Exists(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestOrderRepository_LoadedOrderDoesNotAliasStore(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()
	order := newOrder(t, "ORD-100")
	require.NoError(t, repo.Save(ctx, order))

	loaded, err := repo.FindByID(ctx, order.ID())
	require.NoError(t, err)
	sku, err := entity.NewSKU("XYZ999")
	require.NoError(t, err)
	item, err := entity.NewOrderItem(sku, entity.MustMoney("1.00", "USD"), 1)
	require.NoError(t, err)
	require.NoError(t, loaded.AddItem(item))

	again, err := repo.FindByID(ctx, order.ID())
	require.NoError(t, err)
	assert.Len(t, again.Items(), 1, "unsaved mutation must not leak into the store")
}

func TestOrderRepository_ConcurrentUpdate(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()
	require.NoError(t, repo.Save(ctx, newOrder(t, "ORD-100")))

	first, err := repo.FindByID(ctx, mustID(t, "ORD-100"))
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, mustID(t, "ORD-100"))
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, first))
	assert.ErrorIs(t, repo.Save(ctx, second), repository.ErrConcurrentUpdate)

	duplicate := newOrder(t, "ORD-100")
	assert.ErrorIs(t, repo.Save(ctx, duplicate), repository.ErrConcurrentUpdate)
}

func mustID(t *testing.T, v string) entity.OrderID {
	t.Helper()
	id, err := entity.NewOrderID(v)
	require.NoError(t, err)
	return id
}
