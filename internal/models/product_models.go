package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	DefaultProductName = "Unknown Product"
	DefaultBrandName   = "Unknown Brand"
	DefaultPrice       = "N/A"
)

// ProductInfo uses the display keys the dashboard expects.
type ProductInfo struct {
	Name  string `json:"Product Name"`
	Brand string `json:"Brand Name"`
	Price Price  `json:"Price"`
}

// Price is either a parsed amount or the raw cell value when parsing failed.
// It encodes as a JSON number in the first case and a string otherwise.
type Price struct {
	Amount decimal.Decimal
	Raw    string
	Parsed bool
}

func UnknownPrice() Price {
	return Price{Raw: DefaultPrice}
}

func (p Price) String() string {
	if p.Parsed {
		return p.Amount.StringFixed(2)
	}
	if p.Raw == "" {
		return DefaultPrice
	}
	return p.Raw
}

func (p Price) MarshalJSON() ([]byte, error) {
	if p.Parsed {
		return json.Marshal(p.Amount.InexactFloat64())
	}
	if p.Raw == "" {
		return json.Marshal(DefaultPrice)
	}
	return json.Marshal(p.Raw)
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*p = Price{Amount: decimal.NewFromFloat(v), Parsed: true}
	case string:
		*p = Price{Raw: v}
	case nil:
		*p = UnknownPrice()
	default:
		return fmt.Errorf("unsupported price value %v", raw)
	}
	return nil
}
