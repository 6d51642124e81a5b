package entities

// SettlementResult represents the outcome of resolving a prediction
type SettlementResult struct {
	Prediction *Prediction
	Winners    []*Bet
	Losers     []*Bet
	TotalPool  int64
	Payouts    map[int64]int64 // User ID -> payout amount
}
