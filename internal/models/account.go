package models

import "time"

// Account is a bank account. Balance is derived-but-stored: the column is
// authoritative for reads, and after every transaction mutation it is
// recomputed as the full signed sum of the account's transactions.
type Account struct {
	ID        int64
	UserUID   string
	Name      string
	Type      string // checking, savings, cash, other
	Bank      string
	Balance   int64 // Centavos, signed
	CreatedAt time.Time
}

// DummyAccount receives account create/update payloads.
type DummyAccount struct {
	Name string `json:"name" validate:"required,max=64"`
	Type string `json:"type" validate:"required,oneof=checking savings cash other"`
	Bank string `json:"bank" validate:"max=64"`
}
