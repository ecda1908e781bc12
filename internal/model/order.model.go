package model

type Order struct {
	ID         int64   `json:"id"`
	CustomerID int64   `json:"customer_id"`
	RecordID   int64   `json:"record_id"`
	OrderDate  *string `json:"order_date"`
}

type OrderCreateRequest struct {
	CustomerID int64   `json:"customer_id"`
	RecordID   int64   `json:"record_id"`
	OrderDate  *string `json:"order_date"`
}

func (p OrderCreateRequest) Validate() error {
	return firstError(
		requiredID("customer_id", p.CustomerID),
		requiredID("record_id", p.RecordID),
	)
}

// OrderPatch has no customer_id: an order never moves between customers.
type OrderPatch struct {
	RecordID  Optional[int64]  `json:"record_id"`
	OrderDate Optional[string] `json:"order_date"`
}

func (p OrderPatch) Validate() error {
	return requiredIDPatch("record_id", p.RecordID)
}

func (p OrderPatch) Empty() bool {
	return !p.RecordID.Set && !p.OrderDate.Set
}

type OrderFilter struct {
	CustomerID *int64
}
