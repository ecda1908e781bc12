package repository

import (
	"context"
	"testing"

	"github.com/nimasrn/record-shop/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryRepository(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewInventoryRepository(db)
	ctx := context.Background()

	i1, err := repo.Create(ctx, &model.Inventory{SupplierID: 1, RecordID: 1, StockQuantity: 500, Price: model.MustPrice("50")})
	require.NoError(t, err)
	i2, err := repo.Create(ctx, &model.Inventory{SupplierID: 2, RecordID: 2, StockQuantity: 20, Price: model.MustPrice("30")})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &model.Inventory{SupplierID: 1, RecordID: 2, StockQuantity: 0, Price: model.MustPrice("0.5")})
	require.NoError(t, err)

	t.Run("get", func(t *testing.T) {
		got, err := repo.Get(ctx, i1.ID)
		require.NoError(t, err)
		assert.Equal(t, 500, got.StockQuantity)
		assert.Equal(t, "50.00", got.Price.String())
	})

	t.Run("count by record", func(t *testing.T) {
		n, err := repo.CountByRecord(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		n, err = repo.CountByRecord(ctx, 3)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("update", func(t *testing.T) {
		updated, err := repo.Update(ctx, i2.ID, model.InventoryPatch{StockQuantity: model.Some(0)})
		require.NoError(t, err)
		assert.Equal(t, 0, updated.StockQuantity)
		assert.Equal(t, "30.00", updated.Price.String())
	})

	t.Run("delete by supplier", func(t *testing.T) {
		deleted, err := repo.DeleteBySupplier(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, deleted, 2)

		sid := int64(1)
		rest, err := repo.List(ctx, model.InventoryFilter{SupplierID: &sid})
		require.NoError(t, err)
		assert.Empty(t, rest)
	})
}

func TestWithinTransaction_RollsBack(t *testing.T) {
	db := SetupTestDB(t)
	customers := NewCustomerRepository(db)
	orders := NewOrderRepository(db)
	ctx := context.Background()

	c, err := customers.Create(ctx, &model.Customer{Name: "tx", Email: "tx@example.com"})
	require.NoError(t, err)
	_, err = orders.Create(ctx, &model.Order{CustomerID: c.ID, RecordID: 1})
	require.NoError(t, err)

	err = db.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := orders.DeleteByCustomer(ctx, c.ID); err != nil {
			return err
		}
		return customers.Delete(ctx, 999)
	})
	assert.ErrorIs(t, err, ErrNotFound)

	cid := c.ID
	left, err := orders.List(ctx, model.OrderFilter{CustomerID: &cid})
	require.NoError(t, err)
	assert.Len(t, left, 1)
}
