package entities

import (
	"time"
)

// PredictionStatus represents the lifecycle state of a prediction
type PredictionStatus string

const (
	PredictionStatusOpen     PredictionStatus = "open"
	PredictionStatusLocked   PredictionStatus = "locked"
	PredictionStatusResolved PredictionStatus = "resolved"
)

// Outcome is one of the two sides of a prediction. Modeled as a closed type
// so invalid outcome values are unrepresentable past the parsing boundary.
type Outcome string

const (
	OutcomeOptionA Outcome = "option_a"
	OutcomeOptionB Outcome = "option_b"
)

// ParseOutcome validates a raw outcome string
func ParseOutcome(raw string) (Outcome, bool) {
	switch Outcome(raw) {
	case OutcomeOptionA:
		return OutcomeOptionA, true
	case OutcomeOptionB:
		return OutcomeOptionB, true
	}
	return "", false
}

// Opposite returns the other side of a binary prediction
func (o Outcome) Opposite() Outcome {
	if o == OutcomeOptionA {
		return OutcomeOptionB
	}
	return OutcomeOptionA
}

// Prediction represents a two-outcome pool wager on a live event
type Prediction struct {
	ID           int64            `db:"id"`
	Title        string           `db:"title"`
	OptionALabel string           `db:"option_a_label"`
	OptionBLabel string           `db:"option_b_label"`
	Status       PredictionStatus `db:"status"`
	Outcome      *Outcome         `db:"outcome"`
	OptionAPool  int64            `db:"option_a_pool"`
	OptionBPool  int64            `db:"option_b_pool"`
	MinBet       int64            `db:"min_bet"`
	MaxBet       int64            `db:"max_bet"`
	ProfitPool   *int64           `db:"profit_pool"`
	LossPool     *int64           `db:"loss_pool"`
	CreatedAt    time.Time        `db:"created_at"`
	LockedAt     *time.Time       `db:"locked_at"`
	ResolvedAt   *time.Time       `db:"resolved_at"`
}

// IsOpen checks if the prediction is accepting bets
func (p *Prediction) IsOpen() bool {
	return p.Status == PredictionStatusOpen
}

// IsLocked checks if betting has been frozen
func (p *Prediction) IsLocked() bool {
	return p.Status == PredictionStatusLocked
}

// IsResolved checks if the prediction has been settled
func (p *Prediction) IsResolved() bool {
	return p.Status == PredictionStatusResolved
}

// CanResolve checks whether settlement is allowed from the current status.
// Resolving straight from open is tolerated; the normal path is lock first.
func (p *Prediction) CanResolve() bool {
	return p.Status == PredictionStatusOpen || p.Status == PredictionStatusLocked
}

// PoolFor returns the pool accumulator for the given outcome
func (p *Prediction) PoolFor(outcome Outcome) int64 {
	if outcome == OutcomeOptionA {
		return p.OptionAPool
	}
	return p.OptionBPool
}

// TotalPool returns the combined stake across both sides
func (p *Prediction) TotalPool() int64 {
	return p.OptionAPool + p.OptionBPool
}

// AmountInRange checks a stake against the prediction's bet limits
func (p *Prediction) AmountInRange(amount int64) bool {
	return amount >= p.MinBet && amount <= p.MaxBet
}

// Lock freezes new stakes. Only valid from the open state.
func (p *Prediction) Lock() {
	if p.Status == PredictionStatusOpen {
		p.Status = PredictionStatusLocked
		now := time.Now()
		p.LockedAt = &now
	}
}

// Resolve marks the prediction settled with the declared outcome and
// snapshots the pools. Terminal; no further transitions.
func (p *Prediction) Resolve(outcome Outcome) {
	if !p.CanResolve() {
		return
	}
	p.Status = PredictionStatusResolved
	p.Outcome = &outcome
	now := time.Now()
	p.ResolvedAt = &now
	profit := p.PoolFor(outcome)
	loss := p.PoolFor(outcome.Opposite())
	p.ProfitPool = &profit
	p.LossPool = &loss
}
