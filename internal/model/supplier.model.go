package model

type Supplier struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

type SupplierCreateRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

func (p SupplierCreateRequest) Validate() error {
	return firstError(
		requiredString("name", p.Name),
		requiredString("email", p.Email),
		requiredString("phone_number", p.PhoneNumber),
	)
}

type SupplierPatch struct {
	Name        Optional[string] `json:"name"`
	Email       Optional[string] `json:"email"`
	PhoneNumber Optional[string] `json:"phone_number"`
}

func (p SupplierPatch) Validate() error {
	return firstError(
		requiredPatch("name", p.Name),
		requiredPatch("email", p.Email),
		requiredPatch("phone_number", p.PhoneNumber),
	)
}

func (p SupplierPatch) Empty() bool {
	return !p.Name.Set && !p.Email.Set && !p.PhoneNumber.Set
}
