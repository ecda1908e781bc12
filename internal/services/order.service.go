package services

import (
	"context"
	"time"

	"github.com/nimasrn/record-shop/internal/changefeed"
	"github.com/nimasrn/record-shop/internal/model"
)

const entityOrder = changefeed.EntityOrder

type OrderService struct {
	orders    OrderRepository
	customers CustomerRepository
	records   RecordRepository
	policy    *Policy
	feed      changefeed.Publisher
}

func NewOrderService(orders OrderRepository, customers CustomerRepository, records RecordRepository, policy *Policy, feed changefeed.Publisher) *OrderService {
	return &OrderService{
		orders:    orders,
		customers: customers,
		records:   records,
		policy:    policy,
		feed:      feed,
	}
}

func (s *OrderService) List(ctx context.Context) ([]*model.Order, error) {
	orders, err := s.orders.List(ctx, model.OrderFilter{})
	if err != nil {
		return nil, mapStoreError("Order", 0, err)
	}
	return orders, nil
}

// ListByCustomer fails with ErrNotFound when the customer does not exist.
func (s *OrderService) ListByCustomer(ctx context.Context, customerID int64) ([]*model.Order, error) {
	ok, err := s.customers.Exists(ctx, customerID)
	if err != nil {
		return nil, mapStoreError("Customer", customerID, err)
	}
	if !ok {
		return nil, newError(ErrNotFound, "No customer found with id %d", customerID)
	}

	orders, err := s.orders.List(ctx, model.OrderFilter{CustomerID: &customerID})
	if err != nil {
		return nil, mapStoreError("Order", 0, err)
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id int64) (*model.Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, mapStoreError("Order", id, err)
	}
	return o, nil
}

func (s *OrderService) Create(ctx context.Context, req model.OrderCreateRequest) (created *model.Order, err error) {
	start := time.Now()
	defer func() { observe(entityOrder, "create", start, err) }()

	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	ch := &changes{}
	err = s.orders.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkCustomer(ctx, req.CustomerID); err != nil {
			return err
		}
		if err := s.checkRecord(ctx, req.RecordID); err != nil {
			return err
		}

		o, err := s.orders.Create(ctx, &model.Order{
			CustomerID: req.CustomerID,
			RecordID:   req.RecordID,
			OrderDate:  req.OrderDate,
		})
		if err != nil {
			return mapStoreError("Order", 0, err)
		}
		created = o
		ch.add(entityOrder, changefeed.ActionCreated, o.ID, o)
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.feed, ch)
	return created, nil
}

// Update never moves an order to another customer; a new record_id must exist.
func (s *OrderService) Update(ctx context.Context, id int64, patch model.OrderPatch) (updated *model.Order, err error) {
	start := time.Now()
	defer func() { observe(entityOrder, "update", start, err) }()

	if err := patch.Validate(); err != nil {
		return nil, validationError(err)
	}

	ch := &changes{}
	err = s.orders.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.orders.GetForUpdate(ctx, id); err != nil {
			return mapStoreError("Order", id, err)
		}
		if patch.RecordID.Set {
			if err := s.checkRecord(ctx, patch.RecordID.Value); err != nil {
				return err
			}
		}

		o, err := s.orders.Update(ctx, id, patch)
		if err != nil {
			return mapStoreError("Order", id, err)
		}
		updated = o
		if !patch.Empty() {
			ch.add(entityOrder, changefeed.ActionUpdated, o.ID, o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.feed, ch)
	return updated, nil
}

// Delete goes through BeforeDeleteOrder, which rejects every order that
// belongs to a customer.
func (s *OrderService) Delete(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { observe(entityOrder, "delete", start, err) }()

	ch := &changes{}
	err = s.orders.WithinTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetForUpdate(ctx, id)
		if err != nil {
			return mapStoreError("Order", id, err)
		}
		if err := s.policy.BeforeDeleteOrder(ctx, o); err != nil {
			return err
		}
		if err := s.orders.Delete(ctx, id); err != nil {
			return mapStoreError("Order", id, err)
		}
		ch.add(entityOrder, changefeed.ActionDeleted, o.ID, o)
		return nil
	})
	if err != nil {
		return err
	}

	publish(ctx, s.feed, ch)
	return nil
}

func (s *OrderService) checkCustomer(ctx context.Context, id int64) error {
	ok, err := s.customers.Exists(ctx, id)
	if err != nil {
		return mapStoreError("Customer", id, err)
	}
	if !ok {
		return referenceNotFound("customer", id)
	}
	return nil
}

// checkRecord locks the record for share: orders.record_id has no foreign
// key, so the lock is what stops a concurrent record delete from committing
// before the order does.
func (s *OrderService) checkRecord(ctx context.Context, id int64) error {
	ok, err := s.records.ExistsForShare(ctx, id)
	if err != nil {
		return mapStoreError("Record", id, err)
	}
	if !ok {
		return referenceNotFound("record", id)
	}
	return nil
}
