package model

type Customer struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
}

type CustomerCreateRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
}

func (p CustomerCreateRequest) Validate() error {
	return firstError(
		requiredString("name", p.Name),
		requiredString("email", p.Email),
	)
}

type CustomerPatch struct {
	Name        Optional[string] `json:"name"`
	Email       Optional[string] `json:"email"`
	PhoneNumber Optional[string] `json:"phone_number"`
	Address     Optional[string] `json:"address"`
}

func (p CustomerPatch) Validate() error {
	return firstError(
		requiredPatch("name", p.Name),
		requiredPatch("email", p.Email),
	)
}

func (p CustomerPatch) Empty() bool {
	return !p.Name.Set && !p.Email.Set && !p.PhoneNumber.Set && !p.Address.Set
}
