package services

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/nimasrn/record-shop/internal/changefeed"
	"github.com/nimasrn/record-shop/internal/model"
	"github.com/nimasrn/record-shop/internal/repository"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []changefeed.Event
}

func (p *recordingPublisher) Publish(_ context.Context, events ...changefeed.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

// summary renders events as "entity.action#id" in publish order.
func (p *recordingPublisher) summary() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.String())
	}
	return out
}

type testEnv struct {
	customers *CustomerService
	suppliers *SupplierService
	records   *RecordService
	orders    *OrderService
	inventory *InventoryService
	feed      *recordingPublisher
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()
	db := repository.SetupTestDB(t)

	customerRepo := repository.NewCustomerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)

	policy := NewPolicy(orderRepo, inventoryRepo)
	feed := &recordingPublisher{}

	return &testEnv{
		customers: NewCustomerService(customerRepo, policy, feed),
		suppliers: NewSupplierService(supplierRepo, policy, feed),
		records:   NewRecordService(recordRepo, policy, feed),
		orders:    NewOrderService(orderRepo, customerRepo, recordRepo, policy, feed),
		inventory: NewInventoryService(inventoryRepo, supplierRepo, recordRepo, policy, feed),
		feed:      feed,
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func pricePtr(s string) *model.Price {
	p := model.MustPrice(s)
	return &p
}

func (e *testEnv) customer(t *testing.T, name string) *model.Customer {
	t.Helper()
	c, err := e.customers.Create(context.Background(), model.CustomerCreateRequest{Name: name, Email: name + "@example.com"})
	require.NoError(t, err)
	return c
}

func (e *testEnv) supplier(t *testing.T, name string) *model.Supplier {
	t.Helper()
	s, err := e.suppliers.Create(context.Background(), model.SupplierCreateRequest{Name: name, Email: name + "@example.com", PhoneNumber: "0123456789"})
	require.NoError(t, err)
	return s
}

func (e *testEnv) record(t *testing.T, title, artist string) *model.Record {
	t.Helper()
	r, err := e.records.Create(context.Background(), model.RecordCreateRequest{Title: title, Artist: artist, Price: pricePtr("15")})
	require.NoError(t, err)
	return r
}

func (e *testEnv) order(t *testing.T, customerID, recordID int64) *model.Order {
	t.Helper()
	o, err := e.orders.Create(context.Background(), model.OrderCreateRequest{CustomerID: customerID, RecordID: recordID, OrderDate: strPtr("2023-10-20")})
	require.NoError(t, err)
	return o
}

func (e *testEnv) stock(t *testing.T, supplierID, recordID int64) *model.Inventory {
	t.Helper()
	inv, err := e.inventory.Create(context.Background(), model.InventoryCreateRequest{
		SupplierID:    supplierID,
		RecordID:      recordID,
		StockQuantity: intPtr(10),
		Price:         pricePtr("50"),
	})
	require.NoError(t, err)
	return inv
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
