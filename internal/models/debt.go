package models

import "time"

// Debt is an outstanding liability paid down over time.
// Invariant: 0 <= PaidValue <= TotalValue.
type Debt struct {
	ID                 int64
	UserUID            string
	Name               string
	Bank               string
	TotalValue         int64 // Centavos
	PaidValue          int64 // Centavos
	MonthlyInstallment int64 // Centavos
	DueDate            time.Time
	Icon               string
	CreatedAt          time.Time
}

// PayoffPercent returns paid/total as a percentage. A zero total reports 0
// rather than dividing by zero.
func (d *Debt) PayoffPercent() float64 {
	if d.TotalValue == 0 {
		return 0
	}
	return float64(d.PaidValue) / float64(d.TotalValue) * 100
}

// DummyDebt receives debt create/update payloads.
type DummyDebt struct {
	Name               string `json:"name" validate:"required,max=128"`
	Bank               string `json:"bank" validate:"max=64"`
	TotalValue         int64  `json:"total_value" validate:"gte=0"`
	MonthlyInstallment int64  `json:"monthly_installment" validate:"gte=0"`
	DueDate            string `json:"due_date" validate:"required"`
	Icon               string `json:"icon" validate:"max=32"`
}

// DummyDebtPayment receives debt payment payloads.
type DummyDebtPayment struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}
