package services

import (
	"context"
	"time"

	"github.com/nimasrn/record-shop/internal/changefeed"
	"github.com/nimasrn/record-shop/internal/model"
)

const entitySupplier = changefeed.EntitySupplier

type SupplierService struct {
	suppliers SupplierRepository
	policy    *Policy
	feed      changefeed.Publisher
}

func NewSupplierService(suppliers SupplierRepository, policy *Policy, feed changefeed.Publisher) *SupplierService {
	return &SupplierService{
		suppliers: suppliers,
		policy:    policy,
		feed:      feed,
	}
}

func (s *SupplierService) List(ctx context.Context) ([]*model.Supplier, error) {
	suppliers, err := s.suppliers.List(ctx)
	if err != nil {
		return nil, mapStoreError("Supplier", 0, err)
	}
	return suppliers, nil
}

func (s *SupplierService) Get(ctx context.Context, id int64) (*model.Supplier, error) {
	sup, err := s.suppliers.Get(ctx, id)
	if err != nil {
		return nil, mapStoreError("Supplier", id, err)
	}
	return sup, nil
}

func (s *SupplierService) Create(ctx context.Context, req model.SupplierCreateRequest) (created *model.Supplier, err error) {
	start := time.Now()
	defer func() { observe(entitySupplier, "create", start, err) }()

	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	created, err = s.suppliers.Create(ctx, &model.Supplier{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return nil, mapStoreError("Supplier", 0, err)
	}

	ch := &changes{}
	ch.add(entitySupplier, changefeed.ActionCreated, created.ID, created)
	publish(ctx, s.feed, ch)
	return created, nil
}

func (s *SupplierService) Update(ctx context.Context, id int64, patch model.SupplierPatch) (updated *model.Supplier, err error) {
	start := time.Now()
	defer func() { observe(entitySupplier, "update", start, err) }()

	if err := patch.Validate(); err != nil {
		return nil, validationError(err)
	}

	updated, err = s.suppliers.Update(ctx, id, patch)
	if err != nil {
		return nil, mapStoreError("Supplier", id, err)
	}

	if !patch.Empty() {
		ch := &changes{}
		ch.add(entitySupplier, changefeed.ActionUpdated, updated.ID, updated)
		publish(ctx, s.feed, ch)
	}
	return updated, nil
}

// Delete removes the supplier together with all of its inventory rows.
func (s *SupplierService) Delete(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { observe(entitySupplier, "delete", start, err) }()

	ch := &changes{}
	err = s.suppliers.WithinTransaction(ctx, func(ctx context.Context) error {
		sup, err := s.suppliers.GetForUpdate(ctx, id)
		if err != nil {
			return mapStoreError("Supplier", id, err)
		}
		if err := s.policy.BeforeDeleteSupplier(ctx, sup, ch); err != nil {
			return err
		}
		if err := s.suppliers.Delete(ctx, id); err != nil {
			return mapStoreError("Supplier", id, err)
		}
		ch.add(entitySupplier, changefeed.ActionDeleted, sup.ID, sup)
		return nil
	})
	if err != nil {
		return err
	}

	publish(ctx, s.feed, ch)
	return nil
}
