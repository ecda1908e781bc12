package services

import (
	"context"
	"time"

	"github.com/nimasrn/record-shop/internal/changefeed"
	"github.com/nimasrn/record-shop/internal/model"
)

const entityCustomer = changefeed.EntityCustomer

type CustomerService struct {
	customers CustomerRepository
	policy    *Policy
	feed      changefeed.Publisher
}

func NewCustomerService(customers CustomerRepository, policy *Policy, feed changefeed.Publisher) *CustomerService {
	return &CustomerService{
		customers: customers,
		policy:    policy,
		feed:      feed,
	}
}

func (s *CustomerService) List(ctx context.Context) ([]*model.Customer, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, mapStoreError(entityCustomer, 0, err)
	}
	return customers, nil
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*model.Customer, error) {
	c, err := s.customers.Get(ctx, id)
	if err != nil {
		return nil, mapStoreError("Customer", id, err)
	}
	return c, nil
}

func (s *CustomerService) Create(ctx context.Context, req model.CustomerCreateRequest) (created *model.Customer, err error) {
	start := time.Now()
	defer func() { observe(entityCustomer, "create", start, err) }()

	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	ch := &changes{}
	err = s.customers.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkUnique(ctx, req.Name, req.Email, 0); err != nil {
			return err
		}

		c, err := s.customers.Create(ctx, &model.Customer{
			Name:        req.Name,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
			Address:     req.Address,
		})
		if err != nil {
			return mapStoreError("Customer", 0, err)
		}
		created = c
		ch.add(entityCustomer, changefeed.ActionCreated, c.ID, c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.feed, ch)
	return created, nil
}

func (s *CustomerService) Update(ctx context.Context, id int64, patch model.CustomerPatch) (updated *model.Customer, err error) {
	start := time.Now()
	defer func() { observe(entityCustomer, "update", start, err) }()

	if err := patch.Validate(); err != nil {
		return nil, validationError(err)
	}

	ch := &changes{}
	err = s.customers.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.customers.GetForUpdate(ctx, id)
		if err != nil {
			return mapStoreError("Customer", id, err)
		}

		name, email := "", ""
		if patch.Name.Set && patch.Name.Value != current.Name {
			name = patch.Name.Value
		}
		if patch.Email.Set && patch.Email.Value != current.Email {
			email = patch.Email.Value
		}
		if err := s.checkUnique(ctx, name, email, id); err != nil {
			return err
		}

		c, err := s.customers.Update(ctx, id, patch)
		if err != nil {
			return mapStoreError("Customer", id, err)
		}
		updated = c
		if !patch.Empty() {
			ch.add(entityCustomer, changefeed.ActionUpdated, c.ID, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.feed, ch)
	return updated, nil
}

// Delete removes the customer together with all of its orders.
func (s *CustomerService) Delete(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { observe(entityCustomer, "delete", start, err) }()

	ch := &changes{}
	err = s.customers.WithinTransaction(ctx, func(ctx context.Context) error {
		c, err := s.customers.GetForUpdate(ctx, id)
		if err != nil {
			return mapStoreError("Customer", id, err)
		}
		if err := s.policy.BeforeDeleteCustomer(ctx, c, ch); err != nil {
			return err
		}
		if err := s.customers.Delete(ctx, id); err != nil {
			return mapStoreError("Customer", id, err)
		}
		ch.add(entityCustomer, changefeed.ActionDeleted, c.ID, c)
		return nil
	})
	if err != nil {
		return err
	}

	publish(ctx, s.feed, ch)
	return nil
}

// checkUnique skips empty values. excludeID is the customer being updated.
func (s *CustomerService) checkUnique(ctx context.Context, name, email string, excludeID int64) error {
	if name != "" {
		taken, err := s.customers.NameTaken(ctx, name, excludeID)
		if err != nil {
			return mapStoreError("Customer", excludeID, err)
		}
		if taken {
			return newError(ErrConflict, "A customer with the name '%s' already exists.", name)
		}
	}
	if email != "" {
		taken, err := s.customers.EmailTaken(ctx, email, excludeID)
		if err != nil {
			return mapStoreError("Customer", excludeID, err)
		}
		if taken {
			return newError(ErrConflict, "A customer with the email '%s' already exists.", email)
		}
	}
	return nil
}
