package services

import (
	"context"

	"github.com/nimasrn/record-shop/internal/model"
)

// Transactor groups repository calls into one database transaction. Nested
// calls join the outer transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type CustomerRepository interface {
	Transactor
	Create(ctx context.Context, c *model.Customer) (*model.Customer, error)
	Get(ctx context.Context, id int64) (*model.Customer, error)
	GetForUpdate(ctx context.Context, id int64) (*model.Customer, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]*model.Customer, error)
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	Update(ctx context.Context, id int64, p model.CustomerPatch) (*model.Customer, error)
	Delete(ctx context.Context, id int64) error
}

type SupplierRepository interface {
	Transactor
	Create(ctx context.Context, s *model.Supplier) (*model.Supplier, error)
	Get(ctx context.Context, id int64) (*model.Supplier, error)
	GetForUpdate(ctx context.Context, id int64) (*model.Supplier, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]*model.Supplier, error)
	Update(ctx context.Context, id int64, p model.SupplierPatch) (*model.Supplier, error)
	Delete(ctx context.Context, id int64) error
}

type RecordRepository interface {
	Transactor
	Create(ctx context.Context, r *model.Record) (*model.Record, error)
	Get(ctx context.Context, id int64) (*model.Record, error)
	GetForUpdate(ctx context.Context, id int64) (*model.Record, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// ExistsForShare holds the row until the surrounding transaction ends.
	ExistsForShare(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, f model.RecordFilter) ([]*model.Record, error)
	Update(ctx context.Context, id int64, p model.RecordPatch) (*model.Record, error)
	Delete(ctx context.Context, id int64) error
}

type OrderRepository interface {
	Transactor
	Create(ctx context.Context, o *model.Order) (*model.Order, error)
	Get(ctx context.Context, id int64) (*model.Order, error)
	GetForUpdate(ctx context.Context, id int64) (*model.Order, error)
	List(ctx context.Context, f model.OrderFilter) ([]*model.Order, error)
	Update(ctx context.Context, id int64, p model.OrderPatch) (*model.Order, error)
	Delete(ctx context.Context, id int64) error
	DeleteByCustomer(ctx context.Context, customerID int64) ([]*model.Order, error)
}

type InventoryRepository interface {
	Transactor
	Create(ctx context.Context, inv *model.Inventory) (*model.Inventory, error)
	Get(ctx context.Context, id int64) (*model.Inventory, error)
	GetForUpdate(ctx context.Context, id int64) (*model.Inventory, error)
	List(ctx context.Context, f model.InventoryFilter) ([]*model.Inventory, error)
	CountByRecord(ctx context.Context, recordID int64) (int64, error)
	Update(ctx context.Context, id int64, p model.InventoryPatch) (*model.Inventory, error)
	Delete(ctx context.Context, id int64) error
	DeleteBySupplier(ctx context.Context, supplierID int64) ([]*model.Inventory, error)
}
