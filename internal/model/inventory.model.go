package model

type Inventory struct {
	ID            int64 `json:"id"`
	SupplierID    int64 `json:"supplier_id"`
	RecordID      int64 `json:"record_id"`
	StockQuantity int   `json:"stock_quantity"`
	Price         Price `json:"price"`
}

type InventoryCreateRequest struct {
	SupplierID    int64  `json:"supplier_id"`
	RecordID      int64  `json:"record_id"`
	StockQuantity *int   `json:"stock_quantity"`
	Price         *Price `json:"price"`
}

func (p InventoryCreateRequest) Validate() error {
	if err := firstError(
		requiredID("supplier_id", p.SupplierID),
		requiredID("record_id", p.RecordID),
	); err != nil {
		return err
	}
	if p.StockQuantity == nil {
		return required("stock_quantity")
	}
	if p.Price == nil {
		return required("price")
	}
	return nil
}

type InventoryPatch struct {
	SupplierID    Optional[int64] `json:"supplier_id"`
	RecordID      Optional[int64] `json:"record_id"`
	StockQuantity Optional[int]   `json:"stock_quantity"`
	Price         Optional[Price] `json:"price"`
}

func (p InventoryPatch) Validate() error {
	return firstError(
		requiredIDPatch("supplier_id", p.SupplierID),
		requiredIDPatch("record_id", p.RecordID),
		requiredPatch("stock_quantity", p.StockQuantity),
		requiredPatch("price", p.Price),
	)
}

func (p InventoryPatch) Empty() bool {
	return !p.SupplierID.Set && !p.RecordID.Set && !p.StockQuantity.Set && !p.Price.Set
}

type InventoryFilter struct {
	SupplierID *int64
}
