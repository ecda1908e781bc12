package handlers

import (
	"context"

	"github.com/nimasrn/record-shop/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) List(ctx context.Context) ([]*model.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Customer), args.Error(1)
}

func (m *MockCustomerService) Get(ctx context.Context, id int64) (*model.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) Create(ctx context.Context, req model.CustomerCreateRequest) (*model.Customer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) Update(ctx context.Context, id int64, patch model.CustomerPatch) (*model.Customer, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) records(args mock.Arguments) ([]*model.Record, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Record), args.Error(1)
}

func (m *MockRecordService) List(ctx context.Context) ([]*model.Record, error) {
	return m.records(m.Called(ctx))
}

func (m *MockRecordService) ListByArtist(ctx context.Context, artist string) ([]*model.Record, error) {
	return m.records(m.Called(ctx, artist))
}

func (m *MockRecordService) ListByGenre(ctx context.Context, genre string) ([]*model.Record, error) {
	return m.records(m.Called(ctx, genre))
}

func (m *MockRecordService) Get(ctx context.Context, id int64) (*model.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Record), args.Error(1)
}

func (m *MockRecordService) Create(ctx context.Context, req model.RecordCreateRequest) (*model.Record, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Record), args.Error(1)
}

func (m *MockRecordService) Update(ctx context.Context, id int64, patch model.RecordPatch) (*model.Record, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Record), args.Error(1)
}

func (m *MockRecordService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) orders(args mock.Arguments) ([]*model.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context) ([]*model.Order, error) {
	return m.orders(m.Called(ctx))
}

func (m *MockOrderService) ListByCustomer(ctx context.Context, customerID int64) ([]*model.Order, error) {
	return m.orders(m.Called(ctx, customerID))
}

func (m *MockOrderService) Get(ctx context.Context, id int64) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Create(ctx context.Context, req model.OrderCreateRequest) (*model.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Update(ctx context.Context, id int64, patch model.OrderPatch) (*model.Order, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) items(args mock.Arguments) ([]*model.Inventory, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Inventory), args.Error(1)
}

func (m *MockInventoryService) List(ctx context.Context) ([]*model.Inventory, error) {
	return m.items(m.Called(ctx))
}

func (m *MockInventoryService) ListBySupplier(ctx context.Context, supplierID int64) ([]*model.Inventory, error) {
	return m.items(m.Called(ctx, supplierID))
}

func (m *MockInventoryService) Get(ctx context.Context, id int64) (*model.Inventory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Inventory), args.Error(1)
}

func (m *MockInventoryService) Create(ctx context.Context, req model.InventoryCreateRequest) (*model.Inventory, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Inventory), args.Error(1)
}

func (m *MockInventoryService) Update(ctx context.Context, id int64, patch model.InventoryPatch) (*model.Inventory, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Inventory), args.Error(1)
}

func (m *MockInventoryService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
