package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nimasrn/record-shop/internal/repository"
	"github.com/nimasrn/record-shop/internal/server"
	"github.com/nimasrn/record-shop/internal/services"
	"github.com/nimasrn/record-shop/pkg/pg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeeder(t *testing.T) (*Seeder, server.Services, *pg.DB) {
	t.Helper()
	db := repository.SetupTestDB(t)
	svc := server.NewServices(db, nil)
	return NewSeeder(db, svc.Customers, svc.Suppliers, svc.Records, svc.Orders, svc.Inventory), svc, db
}

func TestDefault(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	assert.Len(t, d.Customers, 2)
	assert.Len(t, d.Suppliers, 2)
	assert.Len(t, d.Records, 3)
	assert.Len(t, d.Orders, 2)
	assert.Len(t, d.Inventory, 2)

	assert.Equal(t, "0412345678", *d.Customers[0].PhoneNumber)
	assert.Equal(t, "09/06/22", *d.Orders[0].OrderDate)
	assert.Equal(t, 500, d.Inventory[0].StockQuantity)
}

func TestParse(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		d, err := Parse(nil)
		require.NoError(t, err)
		assert.Empty(t, d.Customers)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Parse([]byte("customers:\n  - name: a\n    emial: b\n"))
		require.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("records:\n  - title: Blue Train\n    artist: John Coltrane\n    price: 9.5\n"), 0o600))

	d, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, d.Records, 1)
	assert.Equal(t, "9.5", d.Records[0].Price)
	assert.Nil(t, d.Records[0].Genre)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestSeeder_Apply(t *testing.T) {
	seeder, svc, _ := newSeeder(t)
	ctx := t.Context()

	d, err := Default()
	require.NoError(t, err)

	sum, err := seeder.Apply(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, Summary{Customers: 2, Suppliers: 2, Records: 3, Orders: 2, Inventory: 2}, sum)

	records, err := svc.Records.ListByGenre(ctx, "indie")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "18.00", records[0].Price.String())

	customers, err := svc.Customers.List(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)

	orders, err := svc.Orders.ListByCustomer(ctx, customers[1].ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "04/04/23", *orders[0].OrderDate)

	stock, err := svc.Inventory.List(ctx)
	require.NoError(t, err)
	require.Len(t, stock, 2)
	assert.Equal(t, "50.00", stock[0].Price.String())
}

func TestSeeder_ApplyTwiceRollsBack(t *testing.T) {
	seeder, svc, _ := newSeeder(t)
	ctx := t.Context()

	d, err := Default()
	require.NoError(t, err)

	_, err = seeder.Apply(ctx, d)
	require.NoError(t, err)

	// customers are unique by name, so the second run fails on the first row
	_, err = seeder.Apply(ctx, d)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrConflict)

	records, err := svc.Records.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestSeeder_UnknownReference(t *testing.T) {
	seeder, svc, _ := newSeeder(t)
	ctx := t.Context()

	d := &Data{
		Customers: []Customer{{Name: "a", Email: "a@example.com"}},
		Records:   []Record{{Title: "t", Artist: "x", Price: "1"}},
		Orders:    []Order{{Customer: "a", Record: "missing"}},
	}

	_, err := seeder.Apply(ctx, d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown record "missing"`)

	customers, err := svc.Customers.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestSeeder_InvalidPrice(t *testing.T) {
	seeder, _, _ := newSeeder(t)

	_, err := seeder.Apply(t.Context(), &Data{Records: []Record{{Title: "t", Artist: "x", Price: "cheap"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `record "t"`)
}
