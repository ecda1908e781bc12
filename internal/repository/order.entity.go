package repository

import (
	"github.com/nimasrn/record-shop/internal/model"
)

// OrderEntity declares no gorm relations: references are checked by the
// order service when the row is written, not by the schema.
type OrderEntity struct {
	ID         int64   `db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	CustomerID int64   `db:"customer_id" gorm:"column:customer_id;not null;index"`
	RecordID   int64   `db:"record_id"   gorm:"column:record_id;not null;index"`
	OrderDate  *string `db:"order_date"  gorm:"column:order_date;size:255"`
}

func (OrderEntity) TableName() string {
	return "orders"
}

func toOrderEntity(m *model.Order) *OrderEntity {
	if m == nil {
		return nil
	}
	return &OrderEntity{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		RecordID:   m.RecordID,
		OrderDate:  m.OrderDate,
	}
}

func toOrderModel(e *OrderEntity) *model.Order {
	if e == nil {
		return nil
	}
	return &model.Order{
		ID:         e.ID,
		CustomerID: e.CustomerID,
		RecordID:   e.RecordID,
		OrderDate:  e.OrderDate,
	}
}

func toOrderModels(entities []*OrderEntity) []*model.Order {
	models := make([]*model.Order, len(entities))
	for i, e := range entities {
		models[i] = toOrderModel(e)
	}
	return models
}

func orderColumns(p model.OrderPatch) map[string]any {
	cols := make(map[string]any)
	if p.RecordID.Set {
		cols["record_id"] = p.RecordID.Value
	}
	if p.OrderDate.Set {
		cols["order_date"] = clearable(p.OrderDate)
	}
	return cols
}
