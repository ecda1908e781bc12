package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places kept for every price column.
const PriceScale = 2

// Price is a decimal amount rendered with exactly two decimal places.
// It decodes from either a JSON number or a JSON string.
type Price struct {
	decimal.Decimal
}

func NewPrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, fmt.Errorf("invalid price %q", s)
	}
	return Price{d.Round(PriceScale)}, nil
}

func MustPrice(s string) Price {
	p, err := NewPrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

func PriceFromDecimal(d decimal.Decimal) Price {
	return Price{d.Round(PriceScale)}
}

func (p Price) String() string {
	return p.Decimal.StringFixed(PriceScale)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	parsed, err := NewPrice(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
