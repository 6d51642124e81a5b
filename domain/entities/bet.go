package entities

import (
	"time"
)

// Bet represents a user's stake on one outcome of a prediction.
// Payout stays nil until the prediction resolves; a zero payout after
// resolution means the bet lost (or the winning pool was empty), which is
// distinct from "not yet settled".
type Bet struct {
	ID               int64     `db:"id"`
	PredictionID     int64     `db:"prediction_id"`
	UserID           int64     `db:"user_id"`
	Amount           int64     `db:"amount"`
	PredictedOutcome Outcome   `db:"predicted_outcome"`
	Payout           *int64    `db:"payout"`
	CreatedAt        time.Time `db:"created_at"`
}

// IsSettled checks whether the bet has a recorded payout
func (b *Bet) IsSettled() bool {
	return b.Payout != nil
}

// WonWith checks if this bet backed the declared outcome
func (b *Bet) WonWith(outcome Outcome) bool {
	return b.PredictedOutcome == outcome
}

// PayoutFor computes this bet's pari-mutuel payout: winners split the entire
// pool in proportion to their share of the winning side's stake. Integer
// floor division; the rounding remainder is not redistributed.
func (b *Bet) PayoutFor(outcome Outcome, winningPool, totalPool int64) int64 {
	if !b.WonWith(outcome) || winningPool <= 0 {
		return 0
	}
	return b.Amount * totalPool / winningPool
}
