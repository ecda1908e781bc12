package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateRequests_Validate(t *testing.T) {
	price := MustPrice("10")
	qty := 3

	tests := []struct {
		name    string
		req     interface{ Validate() error }
		wantErr string
	}{
		{name: "customer ok", req: CustomerCreateRequest{Name: "A", Email: "a@x.com"}},
		{name: "customer missing name", req: CustomerCreateRequest{Email: "a@x.com"}, wantErr: "name is required"},
		{name: "customer blank email", req: CustomerCreateRequest{Name: "A", Email: "  "}, wantErr: "email is required"},
		{name: "supplier missing phone", req: SupplierCreateRequest{Name: "S", Email: "s@x.com"}, wantErr: "phone_number is required"},
		{name: "record ok without genre", req: RecordCreateRequest{Title: "T", Artist: "A", Price: &price}},
		{name: "record missing price", req: RecordCreateRequest{Title: "T", Artist: "A"}, wantErr: "price is required"},
		{name: "order missing customer", req: OrderCreateRequest{RecordID: 1}, wantErr: "customer_id is required"},
		{name: "order missing record", req: OrderCreateRequest{CustomerID: 1}, wantErr: "record_id is required"},
		{name: "inventory ok", req: InventoryCreateRequest{SupplierID: 1, RecordID: 1, StockQuantity: &qty, Price: &price}},
		{name: "inventory missing stock", req: InventoryCreateRequest{SupplierID: 1, RecordID: 1, Price: &price}, wantErr: "stock_quantity is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestPatches_Validate(t *testing.T) {
	assert.NoError(t, CustomerPatch{Address: Null[string]()}.Validate())
	assert.NoError(t, CustomerPatch{Address: Some("")}.Validate())
	assert.EqualError(t, CustomerPatch{Name: Some("")}.Validate(), "name is required")
	assert.EqualError(t, CustomerPatch{Email: Null[string]()}.Validate(), "email is required")
	assert.EqualError(t, RecordPatch{Price: Null[Price]()}.Validate(), "price is required")
	assert.EqualError(t, OrderPatch{RecordID: Some(int64(0))}.Validate(), "record_id is required")
	assert.NoError(t, OrderPatch{OrderDate: Null[string]()}.Validate())
	assert.EqualError(t, InventoryPatch{StockQuantity: Null[int]()}.Validate(), "stock_quantity is required")
	assert.NoError(t, InventoryPatch{StockQuantity: Some(0)}.Validate())

	assert.True(t, SupplierPatch{}.Empty())
	assert.False(t, RecordPatch{Genre: Some("pop")}.Empty())
}
