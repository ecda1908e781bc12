package services

import (
	"context"
	"testing"

	"github.com/nimasrn/record-shop/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerService_Uniqueness(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	_, err := env.customers.Create(ctx, model.CustomerCreateRequest{Name: "A", Email: "a@x"})
	require.NoError(t, err)

	t.Run("same name", func(t *testing.T) {
		_, err := env.customers.Create(ctx, model.CustomerCreateRequest{Name: "A", Email: "b@x"})
		require.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, "A customer with the name 'A' already exists.", err.Error())
	})

	t.Run("same email", func(t *testing.T) {
		_, err := env.customers.Create(ctx, model.CustomerCreateRequest{Name: "B", Email: "a@x"})
		require.ErrorIs(t, err, ErrConflict)
		assert.Contains(t, err.Error(), "a@x")
	})

	t.Run("update to a taken name", func(t *testing.T) {
		other, err := env.customers.Create(ctx, model.CustomerCreateRequest{Name: "C", Email: "c@x"})
		require.NoError(t, err)

		_, err = env.customers.Update(ctx, other.ID, model.CustomerPatch{Name: model.Some("A")})
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("update keeping own name", func(t *testing.T) {
		list, err := env.customers.List(ctx)
		require.NoError(t, err)
		first := list[0]

		updated, err := env.customers.Update(ctx, first.ID, model.CustomerPatch{Name: model.Some(first.Name), Email: model.Some(first.Email)})
		require.NoError(t, err)
		assert.Equal(t, first.Name, updated.Name)
	})

	list, err := env.customers.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCustomerService_PartialUpdate(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	c, err := env.customers.Create(ctx, model.CustomerCreateRequest{
		Name:        "Jane",
		Email:       "jane@example.com",
		PhoneNumber: strPtr("0400000000"),
	})
	require.NoError(t, err)

	updated, err := env.customers.Update(ctx, c.ID, model.CustomerPatch{Address: model.Some("1 Smith St")})
	require.NoError(t, err)
	assert.Equal(t, "Jane", updated.Name)
	assert.Equal(t, "jane@example.com", updated.Email)
	require.NotNil(t, updated.PhoneNumber)
	assert.Equal(t, "0400000000", *updated.PhoneNumber)
	require.NotNil(t, updated.Address)
	assert.Equal(t, "1 Smith St", *updated.Address)

	cleared, err := env.customers.Update(ctx, c.ID, model.CustomerPatch{PhoneNumber: model.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, cleared.PhoneNumber)
	assert.NotNil(t, cleared.Address)

	t.Run("clearing a required field", func(t *testing.T) {
		_, err := env.customers.Update(ctx, c.ID, model.CustomerPatch{Name: model.Null[string]()})
		require.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, "name is required", err.Error())
	})

	t.Run("empty patch returns the current row", func(t *testing.T) {
		env.feed.reset()
		same, err := env.customers.Update(ctx, c.ID, model.CustomerPatch{})
		require.NoError(t, err)
		assert.Equal(t, cleared, same)
		assert.Empty(t, env.feed.summary())
	})

	t.Run("missing customer", func(t *testing.T) {
		_, err := env.customers.Update(ctx, 999, model.CustomerPatch{Address: model.Some("x")})
		require.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "Customer with id 999 does not exist", err.Error())
	})
}

func TestCustomerService_DeleteCascadesOrders(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	c := env.customer(t, "jane")
	keep := env.customer(t, "john")
	r := env.record(t, "Abbey Road", "The Beatles")
	o1 := env.order(t, c.ID, r.ID)
	o2 := env.order(t, c.ID, r.ID)
	o3 := env.order(t, keep.ID, r.ID)
	env.feed.reset()

	require.NoError(t, env.customers.Delete(ctx, c.ID))

	_, err := env.customers.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	for _, id := range []int64{o1.ID, o2.ID} {
		_, err := env.orders.Get(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
	}

	remaining, err := env.orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, o3.ID, remaining[0].ID)

	_, err = env.records.Get(ctx, r.ID)
	assert.NoError(t, err)

	assert.Equal(t, []string{
		"order.deleted#" + itoa(o1.ID),
		"order.deleted#" + itoa(o2.ID),
		"customer.deleted#" + itoa(c.ID),
	}, env.feed.summary())

	err = env.customers.Delete(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSupplierService_DeleteCascadesInventory(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	s := env.supplier(t, "acme")
	other := env.supplier(t, "globex")
	r := env.record(t, "Kind of Blue", "Miles Davis")
	inv := env.stock(t, s.ID, r.ID)
	kept := env.stock(t, other.ID, r.ID)

	require.NoError(t, env.suppliers.Delete(ctx, s.ID))

	_, err := env.suppliers.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.inventory.Get(ctx, inv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.inventory.Get(ctx, kept.ID)
	assert.NoError(t, err)

	_, err = env.inventory.ListBySupplier(ctx, s.ID)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "No supplier found with id "+itoa(s.ID), err.Error())
}

func TestRecordService_DeleteBlockedByInventory(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	s := env.supplier(t, "acme")
	r := env.record(t, "Blue Train", "John Coltrane")
	inv := env.stock(t, s.ID, r.ID)
	env.feed.reset()

	err := env.records.Delete(ctx, r.ID)
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Record with id "+itoa(r.ID)+" has associated shipments and cannot be deleted", err.Error())

	_, err = env.records.Get(ctx, r.ID)
	assert.NoError(t, err)
	_, err = env.inventory.Get(ctx, inv.ID)
	assert.NoError(t, err)
	assert.Empty(t, env.feed.summary())

	require.NoError(t, env.inventory.Delete(ctx, inv.ID))
	require.NoError(t, env.records.Delete(ctx, r.ID))
	_, err = env.records.Get(ctx, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordService_DeleteIgnoresOrders(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	c := env.customer(t, "jane")
	r := env.record(t, "Blue", "Joni Mitchell")
	o := env.order(t, c.ID, r.ID)

	require.NoError(t, env.records.Delete(ctx, r.ID))

	got, err := env.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.RecordID)
}

func TestOrderService_DeleteAlwaysBlocked(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	c := env.customer(t, "jane")
	r := env.record(t, "Blue", "Joni Mitchell")
	o := env.order(t, c.ID, r.ID)

	err := env.orders.Delete(ctx, o.ID)
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Cannot delete order with id '"+itoa(o.ID)+"' because it is linked to a customer.", err.Error())

	_, err = env.orders.Get(ctx, o.ID)
	assert.NoError(t, err)

	err = env.orders.Delete(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderService_References(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	c := env.customer(t, "jane")
	r := env.record(t, "Blue", "Joni Mitchell")

	_, err := env.orders.Create(ctx, model.OrderCreateRequest{CustomerID: 999, RecordID: r.ID})
	require.ErrorIs(t, err, ErrReference)
	assert.Equal(t, "No customer found with id 999", err.Error())

	_, err = env.orders.Create(ctx, model.OrderCreateRequest{CustomerID: c.ID, RecordID: 999})
	require.ErrorIs(t, err, ErrReference)
	assert.Equal(t, "No record found with id 999", err.Error())

	_, err = env.orders.Create(ctx, model.OrderCreateRequest{RecordID: r.ID})
	require.ErrorIs(t, err, ErrValidation)

	o := env.order(t, c.ID, r.ID)

	_, err = env.orders.Update(ctx, o.ID, model.OrderPatch{RecordID: model.Some[int64](999)})
	require.ErrorIs(t, err, ErrReference)

	updated, err := env.orders.Update(ctx, o.ID, model.OrderPatch{OrderDate: model.Some("2024-01-01")})
	require.NoError(t, err)
	assert.Equal(t, c.ID, updated.CustomerID)
	assert.Equal(t, r.ID, updated.RecordID)
	require.NotNil(t, updated.OrderDate)
	assert.Equal(t, "2024-01-01", *updated.OrderDate)

	byCustomer, err := env.orders.ListByCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, byCustomer, 1)

	_, err = env.orders.ListByCustomer(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "No customer found with id 999", err.Error())
}

func TestInventoryService_References(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	s := env.supplier(t, "acme")
	r := env.record(t, "Blue", "Joni Mitchell")

	_, err := env.inventory.Create(ctx, model.InventoryCreateRequest{
		SupplierID:    s.ID,
		RecordID:      999,
		StockQuantity: intPtr(10),
		Price:         pricePtr("50"),
	})
	require.ErrorIs(t, err, ErrReference)
	assert.Equal(t, "No record found with id 999", err.Error())

	_, err = env.inventory.Create(ctx, model.InventoryCreateRequest{
		SupplierID:    999,
		RecordID:      r.ID,
		StockQuantity: intPtr(10),
		Price:         pricePtr("50"),
	})
	require.ErrorIs(t, err, ErrReference)
	assert.Equal(t, "No supplier found with id 999", err.Error())

	all, err := env.inventory.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = env.inventory.Create(ctx, model.InventoryCreateRequest{SupplierID: s.ID, RecordID: r.ID, Price: pricePtr("1")})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "stock_quantity is required", err.Error())

	inv := env.stock(t, s.ID, r.ID)
	assert.Equal(t, "50.00", inv.Price.String())

	updated, err := env.inventory.Update(ctx, inv.ID, model.InventoryPatch{StockQuantity: model.Some(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.StockQuantity)
	assert.Equal(t, "50.00", updated.Price.String())

	_, err = env.inventory.Update(ctx, inv.ID, model.InventoryPatch{SupplierID: model.Some[int64](999)})
	require.ErrorIs(t, err, ErrReference)

	bySupplier, err := env.inventory.ListBySupplier(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, bySupplier, 1)
}

func TestRecordService_Search(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	ramones := env.record(t, "Ramones", "Joey Ramone")
	_, err := env.records.Create(ctx, model.RecordCreateRequest{Title: "Nevermind", Artist: "Nirvana", Price: pricePtr("20"), Genre: strPtr("Grunge")})
	require.NoError(t, err)

	found, err := env.records.ListByArtist(ctx, "joey")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, ramones.ID, found[0].ID)

	found, err = env.records.ListByGenre(ctx, "GRUNGE")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Nevermind", found[0].Title)

	found, err = env.records.ListByArtist(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = env.records.ListByArtist(ctx, "  ")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.records.ListByGenre(ctx, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecordService_RoundTrip(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	created, err := env.records.Create(ctx, model.RecordCreateRequest{
		Title:  "Blue Train",
		Artist: "John Coltrane",
		Price:  pricePtr("19.999"),
		Genre:  strPtr("Jazz"),
	})
	require.NoError(t, err)
	assert.Equal(t, "20.00", created.Price.String())

	got, err := env.records.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Artist, got.Artist)
	assert.True(t, created.Price.Equal(got.Price.Decimal))
	assert.Equal(t, created.Genre, got.Genre)

	updated, err := env.records.Update(ctx, created.ID, model.RecordPatch{Genre: model.Some("")})
	require.NoError(t, err)
	require.NotNil(t, updated.Genre)
	assert.Equal(t, "", *updated.Genre)

	cleared, err := env.records.Update(ctx, created.ID, model.RecordPatch{Genre: model.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, cleared.Genre)

	_, err = env.records.Create(ctx, model.RecordCreateRequest{Title: "x", Artist: "y"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "price is required", err.Error())
}

func TestSupplierService_CreateAndUpdate(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	_, err := env.suppliers.Create(ctx, model.SupplierCreateRequest{Name: "acme", Email: "a@x"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "phone_number is required", err.Error())

	s := env.supplier(t, "acme")
	updated, err := env.suppliers.Update(ctx, s.ID, model.SupplierPatch{PhoneNumber: model.Some("999")})
	require.NoError(t, err)
	assert.Equal(t, "acme", updated.Name)
	assert.Equal(t, "999", updated.PhoneNumber)

	_, err = env.suppliers.Update(ctx, 999, model.SupplierPatch{Name: model.Some("x")})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Supplier with id 999 does not exist", err.Error())

	assert.Equal(t, []string{
		"supplier.created#" + itoa(s.ID),
		"supplier.updated#" + itoa(s.ID),
	}, env.feed.summary())
}
