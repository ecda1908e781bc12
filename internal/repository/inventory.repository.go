package repository

import (
	"context"

	"github.com/nimasrn/record-shop/internal/model"
	"github.com/nimasrn/record-shop/pkg/pg"
)

type InventoryRepository struct {
	*pg.DB
}

func NewInventoryRepository(db *pg.DB) *InventoryRepository {
	return &InventoryRepository{
		db,
	}
}

func (r *InventoryRepository) Create(ctx context.Context, inv *model.Inventory) (*model.Inventory, error) {
	entity := toInventoryEntity(inv)
	entity.ID = 0

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, translate(err)
	}

	return toInventoryModel(entity), nil
}

func (r *InventoryRepository) Get(ctx context.Context, id int64) (*model.Inventory, error) {
	var entity InventoryEntity
	if err := firstByID(r.Read(ctx), &entity, id); err != nil {
		return nil, err
	}
	return toInventoryModel(&entity), nil
}

func (r *InventoryRepository) GetForUpdate(ctx context.Context, id int64) (*model.Inventory, error) {
	var entity InventoryEntity
	if err := firstByID(r.ForUpdate(ctx), &entity, id); err != nil {
		return nil, err
	}
	return toInventoryModel(&entity), nil
}

func (r *InventoryRepository) List(ctx context.Context, f model.InventoryFilter) ([]*model.Inventory, error) {
	q := r.Read(ctx).Model(&InventoryEntity{})

	if f.SupplierID != nil {
		q = q.Where("supplier_id = ?", *f.SupplierID)
	}

	var entities []*InventoryEntity
	if err := q.Order("id ASC").Find(&entities).Error; err != nil {
		return nil, translate(err)
	}
	return toInventoryModels(entities), nil
}

// CountByRecord returns how many inventory rows reference the record.
func (r *InventoryRepository) CountByRecord(ctx context.Context, recordID int64) (int64, error) {
	var n int64
	err := r.Read(ctx).
		Model(&InventoryEntity{}).
		Where("record_id = ?", recordID).
		Count(&n).
		Error
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (r *InventoryRepository) Update(ctx context.Context, id int64, p model.InventoryPatch) (*model.Inventory, error) {
	if err := updateByID(r.Write(ctx), &InventoryEntity{}, id, inventoryColumns(p)); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *InventoryRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(r.Write(ctx), &InventoryEntity{}, id)
}

// DeleteBySupplier removes every inventory row of the supplier and returns
// the removed rows in id order.
func (r *InventoryRepository) DeleteBySupplier(ctx context.Context, supplierID int64) ([]*model.Inventory, error) {
	var entities []*InventoryEntity
	q := r.Write(ctx)
	if err := q.Where("supplier_id = ?", supplierID).Order("id ASC").Find(&entities).Error; err != nil {
		return nil, translate(err)
	}
	if len(entities) == 0 {
		return []*model.Inventory{}, nil
	}
	if err := q.Where("supplier_id = ?", supplierID).Delete(&InventoryEntity{}).Error; err != nil {
		return nil, translate(err)
	}
	return toInventoryModels(entities), nil
}
