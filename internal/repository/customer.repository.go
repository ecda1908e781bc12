package repository

import (
	"context"

	"github.com/nimasrn/record-shop/internal/model"
	"github.com/nimasrn/record-shop/pkg/pg"
)

type CustomerRepository struct {
	*pg.DB
}

func NewCustomerRepository(db *pg.DB) *CustomerRepository {
	return &CustomerRepository{
		db,
	}
}

func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	entity := toCustomerEntity(c)
	entity.ID = 0

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, translate(err)
	}

	return toCustomerModel(entity), nil
}

func (r *CustomerRepository) Get(ctx context.Context, id int64) (*model.Customer, error) {
	var entity CustomerEntity
	if err := firstByID(r.Read(ctx), &entity, id); err != nil {
		return nil, err
	}
	return toCustomerModel(&entity), nil
}

// GetForUpdate loads the customer and locks its row until the surrounding
// transaction ends.
func (r *CustomerRepository) GetForUpdate(ctx context.Context, id int64) (*model.Customer, error) {
	var entity CustomerEntity
	if err := firstByID(r.ForUpdate(ctx), &entity, id); err != nil {
		return nil, err
	}
	return toCustomerModel(&entity), nil
}

func (r *CustomerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return existsByID(r.Read(ctx), &CustomerEntity{}, id)
}

func (r *CustomerRepository) List(ctx context.Context) ([]*model.Customer, error) {
	var entities []*CustomerEntity
	if err := r.Read(ctx).Order("id ASC").Find(&entities).Error; err != nil {
		return nil, translate(err)
	}
	return toCustomerModels(entities), nil
}

// NameTaken reports whether another customer (any id but excludeID) uses name.
func (r *CustomerRepository) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	return r.taken(ctx, "name", name, excludeID)
}

// EmailTaken reports whether another customer (any id but excludeID) uses email.
func (r *CustomerRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.taken(ctx, "email", email, excludeID)
}

func (r *CustomerRepository) taken(ctx context.Context, column, value string, excludeID int64) (bool, error) {
	var n int64
	err := r.Read(ctx).
		Model(&CustomerEntity{}).
		Where(column+" = ? AND id <> ?", value, excludeID).
		Count(&n).
		Error
	if err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (r *CustomerRepository) Update(ctx context.Context, id int64, p model.CustomerPatch) (*model.Customer, error) {
	if err := updateByID(r.Write(ctx), &CustomerEntity{}, id, customerColumns(p)); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(r.Write(ctx), &CustomerEntity{}, id)
}
