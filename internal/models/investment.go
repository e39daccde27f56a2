package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment is a position in a traded asset. Quantity and UnitPrice are
// decimals since fractional quantities are common; the current value is
// always computed on read and never stored, so it cannot drift.
type Investment struct {
	ID        int64
	UserUID   string
	Ticker    string
	Name      string
	Type      string // stock, fund, fixed_income, crypto, other
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal // Price per unit in currency units
	CreatedAt time.Time
}

// CurrentValue returns quantity × unit price.
func (i *Investment) CurrentValue() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// DummyInvestment receives investment create/update payloads. Quantity and
// unit price arrive as strings and are parsed into decimals by the service.
type DummyInvestment struct {
	Ticker    string `json:"ticker" validate:"required,max=16"`
	Name      string `json:"name" validate:"required,max=128"`
	Type      string `json:"type" validate:"required,oneof=stock fund fixed_income crypto other"`
	Quantity  string `json:"quantity" validate:"required"`
	UnitPrice string `json:"unit_price" validate:"required"`
}
