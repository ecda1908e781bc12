package repository

import (
	"github.com/nimasrn/record-shop/internal/model"
)

type SupplierEntity struct {
	ID          int64  `db:"id"           gorm:"primaryKey;autoIncrement;column:id"`
	Name        string `db:"name"         gorm:"column:name;size:250;not null"`
	Email       string `db:"email"        gorm:"column:email;size:250;not null"`
	PhoneNumber string `db:"phone_number" gorm:"column:phone_number;size:32;not null"`
}

func (SupplierEntity) TableName() string {
	return "suppliers"
}

func toSupplierEntity(m *model.Supplier) *SupplierEntity {
	if m == nil {
		return nil
	}
	return &SupplierEntity{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		PhoneNumber: m.PhoneNumber,
	}
}

func toSupplierModel(e *SupplierEntity) *model.Supplier {
	if e == nil {
		return nil
	}
	return &model.Supplier{
		ID:          e.ID,
		Name:        e.Name,
		Email:       e.Email,
		PhoneNumber: e.PhoneNumber,
	}
}

func toSupplierModels(entities []*SupplierEntity) []*model.Supplier {
	models := make([]*model.Supplier, len(entities))
	for i, e := range entities {
		models[i] = toSupplierModel(e)
	}
	return models
}

func supplierColumns(p model.SupplierPatch) map[string]any {
	cols := make(map[string]any)
	if p.Name.Set {
		cols["name"] = p.Name.Value
	}
	if p.Email.Set {
		cols["email"] = p.Email.Value
	}
	if p.PhoneNumber.Set {
		cols["phone_number"] = p.PhoneNumber.Value
	}
	return cols
}
