package repository

import (
	"context"

	"github.com/nimasrn/record-shop/internal/model"
	"github.com/nimasrn/record-shop/pkg/pg"
)

type SupplierRepository struct {
	*pg.DB
}

func NewSupplierRepository(db *pg.DB) *SupplierRepository {
	return &SupplierRepository{
		db,
	}
}

func (r *SupplierRepository) Create(ctx context.Context, s *model.Supplier) (*model.Supplier, error) {
	entity := toSupplierEntity(s)
	entity.ID = 0

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, translate(err)
	}

	return toSupplierModel(entity), nil
}

func (r *SupplierRepository) Get(ctx context.Context, id int64) (*model.Supplier, error) {
	var entity SupplierEntity
	if err := firstByID(r.Read(ctx), &entity, id); err != nil {
		return nil, err
	}
	return toSupplierModel(&entity), nil
}

func (r *SupplierRepository) GetForUpdate(ctx context.Context, id int64) (*model.Supplier, error) {
	var entity SupplierEntity
	if err := firstByID(r.ForUpdate(ctx), &entity, id); err != nil {
		return nil, err
	}
	return toSupplierModel(&entity), nil
}

func (r *SupplierRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return existsByID(r.Read(ctx), &SupplierEntity{}, id)
}

func (r *SupplierRepository) List(ctx context.Context) ([]*model.Supplier, error) {
	var entities []*SupplierEntity
	if err := r.Read(ctx).Order("id ASC").Find(&entities).Error; err != nil {
		return nil, translate(err)
	}
	return toSupplierModels(entities), nil
}

func (r *SupplierRepository) Update(ctx context.Context, id int64, p model.SupplierPatch) (*model.Supplier, error) {
	if err := updateByID(r.Write(ctx), &SupplierEntity{}, id, supplierColumns(p)); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *SupplierRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(r.Write(ctx), &SupplierEntity{}, id)
}
