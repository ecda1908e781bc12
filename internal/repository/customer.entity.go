package repository

import (
	"github.com/nimasrn/record-shop/internal/model"
)

type CustomerEntity struct {
	ID          int64   `db:"id"           gorm:"primaryKey;autoIncrement;column:id"`
	Name        string  `db:"name"         gorm:"column:name;size:255;not null;uniqueIndex:uq_customers_name"`
	Email       string  `db:"email"        gorm:"column:email;size:255;not null;uniqueIndex:uq_customers_email"`
	PhoneNumber *string `db:"phone_number" gorm:"column:phone_number;size:32"`
	Address     *string `db:"address"      gorm:"column:address;size:255"`
}

func (CustomerEntity) TableName() string {
	return "customers"
}

func toCustomerEntity(m *model.Customer) *CustomerEntity {
	if m == nil {
		return nil
	}
	return &CustomerEntity{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		PhoneNumber: m.PhoneNumber,
		Address:     m.Address,
	}
}

func toCustomerModel(e *CustomerEntity) *model.Customer {
	if e == nil {
		return nil
	}
	return &model.Customer{
		ID:          e.ID,
		Name:        e.Name,
		Email:       e.Email,
		PhoneNumber: e.PhoneNumber,
		Address:     e.Address,
	}
}

func toCustomerModels(entities []*CustomerEntity) []*model.Customer {
	models := make([]*model.Customer, len(entities))
	for i, e := range entities {
		models[i] = toCustomerModel(e)
	}
	return models
}

func customerColumns(p model.CustomerPatch) map[string]any {
	cols := make(map[string]any)
	if p.Name.Set {
		cols["name"] = p.Name.Value
	}
	if p.Email.Set {
		cols["email"] = p.Email.Value
	}
	if p.PhoneNumber.Set {
		cols["phone_number"] = clearable(p.PhoneNumber)
	}
	if p.Address.Set {
		cols["address"] = clearable(p.Address)
	}
	return cols
}
