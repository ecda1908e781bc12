package repository

import (
	"github.com/nimasrn/record-shop/internal/model"
	"github.com/shopspring/decimal"
)

type InventoryEntity struct {
	ID            int64           `db:"id"             gorm:"primaryKey;autoIncrement;column:id"`
	SupplierID    int64           `db:"supplier_id"    gorm:"column:supplier_id;not null;index"`
	RecordID      int64           `db:"record_id"      gorm:"column:record_id;not null;index"`
	StockQuantity int             `db:"stock_quantity" gorm:"column:stock_quantity;not null"`
	Price         decimal.Decimal `db:"price"          gorm:"column:price;type:decimal(10,2);not null"`
}

func (InventoryEntity) TableName() string {
	return "inventory"
}

func toInventoryEntity(m *model.Inventory) *InventoryEntity {
	if m == nil {
		return nil
	}
	return &InventoryEntity{
		ID:            m.ID,
		SupplierID:    m.SupplierID,
		RecordID:      m.RecordID,
		StockQuantity: m.StockQuantity,
		Price:         m.Price.Round(model.PriceScale),
	}
}

func toInventoryModel(e *InventoryEntity) *model.Inventory {
	if e == nil {
		return nil
	}
	return &model.Inventory{
		ID:            e.ID,
		SupplierID:    e.SupplierID,
		RecordID:      e.RecordID,
		StockQuantity: e.StockQuantity,
		Price:         model.PriceFromDecimal(e.Price),
	}
}

func toInventoryModels(entities []*InventoryEntity) []*model.Inventory {
	models := make([]*model.Inventory, len(entities))
	for i, e := range entities {
		models[i] = toInventoryModel(e)
	}
	return models
}

func inventoryColumns(p model.InventoryPatch) map[string]any {
	cols := make(map[string]any)
	if p.SupplierID.Set {
		cols["supplier_id"] = p.SupplierID.Value
	}
	if p.RecordID.Set {
		cols["record_id"] = p.RecordID.Value
	}
	if p.StockQuantity.Set {
		cols["stock_quantity"] = p.StockQuantity.Value
	}
	if p.Price.Set {
		cols["price"] = p.Price.Value.Round(model.PriceScale)
	}
	return cols
}
