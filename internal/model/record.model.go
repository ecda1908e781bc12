package model

type Record struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Artist string  `json:"artist"`
	Price  Price   `json:"price"`
	Genre  *string `json:"genre"`
}

type RecordCreateRequest struct {
	Title  string  `json:"title"`
	Artist string  `json:"artist"`
	Price  *Price  `json:"price"`
	Genre  *string `json:"genre"`
}

func (p RecordCreateRequest) Validate() error {
	if err := firstError(
		requiredString("title", p.Title),
		requiredString("artist", p.Artist),
	); err != nil {
		return err
	}
	if p.Price == nil {
		return required("price")
	}
	return nil
}

type RecordPatch struct {
	Title  Optional[string] `json:"title"`
	Artist Optional[string] `json:"artist"`
	Price  Optional[Price]  `json:"price"`
	Genre  Optional[string] `json:"genre"`
}

func (p RecordPatch) Validate() error {
	return firstError(
		requiredPatch("title", p.Title),
		requiredPatch("artist", p.Artist),
		requiredPatch("price", p.Price),
	)
}

func (p RecordPatch) Empty() bool {
	return !p.Title.Set && !p.Artist.Set && !p.Price.Set && !p.Genre.Set
}

// RecordFilter matches case-insensitive substrings; empty fields match everything.
type RecordFilter struct {
	Artist string
	Genre  string
}
