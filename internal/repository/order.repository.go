package repository

import (
	"context"

	"github.com/nimasrn/record-shop/internal/model"
	"github.com/nimasrn/record-shop/pkg/pg"
)

type OrderRepository struct {
	*pg.DB
}

func NewOrderRepository(db *pg.DB) *OrderRepository {
	return &OrderRepository{
		db,
	}
}

func (r *OrderRepository) Create(ctx context.Context, o *model.Order) (*model.Order, error) {
	entity := toOrderEntity(o)
	entity.ID = 0

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, translate(err)
	}

	return toOrderModel(entity), nil
}

func (r *OrderRepository) Get(ctx context.Context, id int64) (*model.Order, error) {
	var entity OrderEntity
	if err := firstByID(r.Read(ctx), &entity, id); err != nil {
		return nil, err
	}
	return toOrderModel(&entity), nil
}

func (r *OrderRepository) GetForUpdate(ctx context.Context, id int64) (*model.Order, error) {
	var entity OrderEntity
	if err := firstByID(r.ForUpdate(ctx), &entity, id); err != nil {
		return nil, err
	}
	return toOrderModel(&entity), nil
}

func (r *OrderRepository) List(ctx context.Context, f model.OrderFilter) ([]*model.Order, error) {
	q := r.Read(ctx).Model(&OrderEntity{})

	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}

	var entities []*OrderEntity
	if err := q.Order("id ASC").Find(&entities).Error; err != nil {
		return nil, translate(err)
	}
	return toOrderModels(entities), nil
}

func (r *OrderRepository) Update(ctx context.Context, id int64, p model.OrderPatch) (*model.Order, error) {
	if err := updateByID(r.Write(ctx), &OrderEntity{}, id, orderColumns(p)); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(r.Write(ctx), &OrderEntity{}, id)
}

// DeleteByCustomer removes every order of the customer and returns the
// removed orders in id order.
func (r *OrderRepository) DeleteByCustomer(ctx context.Context, customerID int64) ([]*model.Order, error) {
	var entities []*OrderEntity
	q := r.Write(ctx)
	if err := q.Where("customer_id = ?", customerID).Order("id ASC").Find(&entities).Error; err != nil {
		return nil, translate(err)
	}
	if len(entities) == 0 {
		return []*model.Order{}, nil
	}
	if err := q.Where("customer_id = ?", customerID).Delete(&OrderEntity{}).Error; err != nil {
		return nil, translate(err)
	}
	return toOrderModels(entities), nil
}
