package services

import (
	"context"
	"time"

	"github.com/nimasrn/record-shop/internal/changefeed"
	"github.com/nimasrn/record-shop/internal/model"
)

const entityInventory = changefeed.EntityInventory

type InventoryService struct {
	inventory InventoryRepository
	suppliers SupplierRepository
	records   RecordRepository
	policy    *Policy
	feed      changefeed.Publisher
}

func NewInventoryService(inventory InventoryRepository, suppliers SupplierRepository, records RecordRepository, policy *Policy, feed changefeed.Publisher) *InventoryService {
	return &InventoryService{
		inventory: inventory,
		suppliers: suppliers,
		records:   records,
		policy:    policy,
		feed:      feed,
	}
}

func (s *InventoryService) List(ctx context.Context) ([]*model.Inventory, error) {
	items, err := s.inventory.List(ctx, model.InventoryFilter{})
	if err != nil {
		return nil, mapStoreError("Inventory item", 0, err)
	}
	return items, nil
}

// ListBySupplier fails with ErrNotFound when the supplier does not exist.
func (s *InventoryService) ListBySupplier(ctx context.Context, supplierID int64) ([]*model.Inventory, error) {
	ok, err := s.suppliers.Exists(ctx, supplierID)
	if err != nil {
		return nil, mapStoreError("Supplier", supplierID, err)
	}
	if !ok {
		return nil, newError(ErrNotFound, "No supplier found with id %d", supplierID)
	}

	items, err := s.inventory.List(ctx, model.InventoryFilter{SupplierID: &supplierID})
	if err != nil {
		return nil, mapStoreError("Inventory item", 0, err)
	}
	return items, nil
}

func (s *InventoryService) Get(ctx context.Context, id int64) (*model.Inventory, error) {
	inv, err := s.inventory.Get(ctx, id)
	if err != nil {
		return nil, mapStoreError("Inventory item", id, err)
	}
	return inv, nil
}

func (s *InventoryService) Create(ctx context.Context, req model.InventoryCreateRequest) (created *model.Inventory, err error) {
	start := time.Now()
	defer func() { observe(entityInventory, "create", start, err) }()

	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	ch := &changes{}
	err = s.inventory.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkRecord(ctx, req.RecordID); err != nil {
			return err
		}
		if err := s.checkSupplier(ctx, req.SupplierID); err != nil {
			return err
		}

		inv, err := s.inventory.Create(ctx, &model.Inventory{
			SupplierID:    req.SupplierID,
			RecordID:      req.RecordID,
			StockQuantity: *req.StockQuantity,
			Price:         *req.Price,
		})
		if err != nil {
			return mapStoreError("Inventory item", 0, err)
		}
		created = inv
		ch.add(entityInventory, changefeed.ActionCreated, inv.ID, inv)
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.feed, ch)
	return created, nil
}

func (s *InventoryService) Update(ctx context.Context, id int64, patch model.InventoryPatch) (updated *model.Inventory, err error) {
	start := time.Now()
	defer func() { observe(entityInventory, "update", start, err) }()

	if err := patch.Validate(); err != nil {
		return nil, validationError(err)
	}

	ch := &changes{}
	err = s.inventory.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.inventory.GetForUpdate(ctx, id); err != nil {
			return mapStoreError("Inventory item", id, err)
		}
		if patch.RecordID.Set {
			if err := s.checkRecord(ctx, patch.RecordID.Value); err != nil {
				return err
			}
		}
		if patch.SupplierID.Set {
			if err := s.checkSupplier(ctx, patch.SupplierID.Value); err != nil {
				return err
			}
		}

		inv, err := s.inventory.Update(ctx, id, patch)
		if err != nil {
			return mapStoreError("Inventory item", id, err)
		}
		updated = inv
		if !patch.Empty() {
			ch.add(entityInventory, changefeed.ActionUpdated, inv.ID, inv)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.feed, ch)
	return updated, nil
}

func (s *InventoryService) Delete(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { observe(entityInventory, "delete", start, err) }()

	ch := &changes{}
	err = s.inventory.WithinTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.inventory.GetForUpdate(ctx, id)
		if err != nil {
			return mapStoreError("Inventory item", id, err)
		}
		if err := s.policy.BeforeDeleteInventory(ctx, inv); err != nil {
			return err
		}
		if err := s.inventory.Delete(ctx, id); err != nil {
			return mapStoreError("Inventory item", id, err)
		}
		ch.add(entityInventory, changefeed.ActionDeleted, inv.ID, inv)
		return nil
	})
	if err != nil {
		return err
	}

	publish(ctx, s.feed, ch)
	return nil
}

func (s *InventoryService) checkRecord(ctx context.Context, id int64) error {
	ok, err := s.records.Exists(ctx, id)
	if err != nil {
		return mapStoreError("Record", id, err)
	}
	if !ok {
		return referenceNotFound("record", id)
	}
	return nil
}

func (s *InventoryService) checkSupplier(ctx context.Context, id int64) error {
	ok, err := s.suppliers.Exists(ctx, id)
	if err != nil {
		return mapStoreError("Supplier", id, err)
	}
	if !ok {
		return referenceNotFound("supplier", id)
	}
	return nil
}
