package services

import (
	"context"

	"github.com/nimasrn/record-shop/internal/changefeed"
	"github.com/nimasrn/record-shop/internal/model"
	"github.com/nimasrn/record-shop/pkg/logger"
)

// Policy holds the rules that run inside a delete transaction, after the
// parent row is locked and before it is removed.
//
//	customer   cascade: its orders are deleted
//	supplier   cascade: its inventory rows are deleted
//	record     blocked while any inventory row references it
//	order      blocked while it belongs to a customer
//	inventory  no rule
type Policy struct {
	orders    OrderRepository
	inventory InventoryRepository
}

func NewPolicy(orders OrderRepository, inventory InventoryRepository) *Policy {
	return &Policy{orders: orders, inventory: inventory}
}

func (p *Policy) BeforeDeleteCustomer(ctx context.Context, c *model.Customer, ch *changes) error {
	removed, err := p.orders.DeleteByCustomer(ctx, c.ID)
	if err != nil {
		return mapStoreError("Order", 0, err)
	}
	for _, o := range removed {
		ch.add(changefeed.EntityOrder, changefeed.ActionDeleted, o.ID, o)
	}
	if len(removed) > 0 {
		logger.Info("cascaded customer delete", "customer_id", c.ID, "orders", len(removed))
	}
	return nil
}

func (p *Policy) BeforeDeleteSupplier(ctx context.Context, s *model.Supplier, ch *changes) error {
	removed, err := p.inventory.DeleteBySupplier(ctx, s.ID)
	if err != nil {
		return mapStoreError("Inventory item", 0, err)
	}
	for _, inv := range removed {
		ch.add(changefeed.EntityInventory, changefeed.ActionDeleted, inv.ID, inv)
	}
	if len(removed) > 0 {
		logger.Info("cascaded supplier delete", "supplier_id", s.ID, "inventory", len(removed))
	}
	return nil
}

// BeforeDeleteRecord does not look at orders; orders keep their record_id.
func (p *Policy) BeforeDeleteRecord(ctx context.Context, r *model.Record) error {
	n, err := p.inventory.CountByRecord(ctx, r.ID)
	if err != nil {
		return mapStoreError("Record", r.ID, err)
	}
	if n > 0 {
		return newError(ErrConflict, "Record with id %d has associated shipments and cannot be deleted", r.ID)
	}
	return nil
}

// BeforeDeleteOrder rejects every order that has a customer, which is every
// order the store can hold.
func (p *Policy) BeforeDeleteOrder(_ context.Context, o *model.Order) error {
	if o.CustomerID != 0 {
		return newError(ErrConflict, "Cannot delete order with id '%d' because it is linked to a customer.", o.ID)
	}
	return nil
}

func (p *Policy) BeforeDeleteInventory(context.Context, *model.Inventory) error {
	return nil
}
