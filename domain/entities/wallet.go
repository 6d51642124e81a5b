package entities

import (
	"time"
)

// Wallet holds a user's spendable point balance. Balances are mutated only
// through bet placement (debit) and settlement (credit) and never observably
// drop below zero.
type Wallet struct {
	UserID    int64     `db:"user_id"`
	Points    int64     `db:"points"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CanAfford checks the balance against a requested stake
func (w *Wallet) CanAfford(amount int64) bool {
	return w.Points >= amount
}
