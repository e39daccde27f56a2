package models

import "time"

// Transaction types. The type is explicit, never encoded in the amount sign.
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Transaction is a single income or expense attributed to an account.
// AccountID is the authoritative link; AccountName is a denormalized display
// name frozen at creation time, kept only as a compatibility shim for
// historical rows. Renaming an account does not rewrite it.
type Transaction struct {
	ID          int64
	UserUID     string
	AccountID   int64
	AccountName string
	Description string
	Amount      int64 // Centavos, always positive; sign comes from Type
	Type        string
	Category    string
	Date        time.Time
	CreatedAt   time.Time
}

// SignedAmount returns the amount with the sign implied by the type:
// income positive, expense negative.
func (t *Transaction) SignedAmount() int64 {
	if t.Type == TransactionExpense {
		return -t.Amount
	}
	return t.Amount
}

// DummyTransaction receives transaction create/update payloads.
// Date arrives as a string in 02-01-2006 format and is parsed by the service.
type DummyTransaction struct {
	AccountID   int64  `json:"account_id" validate:"required,gt=0"`
	Description string `json:"description" validate:"required,max=256"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Type        string `json:"type" validate:"required,oneof=income expense"`
	Category    string `json:"category" validate:"required,max=64"`
	Date        string `json:"date" validate:"required"`
}
