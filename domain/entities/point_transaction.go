package entities

import (
	"time"
)

// TransactionType categorizes a wallet balance change
type TransactionType string

const (
	TransactionTypeInitial     TransactionType = "initial"
	TransactionTypeBetPlaced   TransactionType = "bet_placed"
	TransactionTypePayout      TransactionType = "payout"
	TransactionTypeAdminAdjust TransactionType = "admin_adjust"
)

// PointTransaction is the ledger record written for every wallet mutation
type PointTransaction struct {
	ID              int64           `db:"id"`
	UserID          int64           `db:"user_id"`
	BalanceBefore   int64           `db:"balance_before"`
	BalanceAfter    int64           `db:"balance_after"`
	ChangeAmount    int64           `db:"change_amount"`
	TransactionType TransactionType `db:"transaction_type"`
	PredictionID    *int64          `db:"prediction_id"`
	Metadata        map[string]any  `db:"metadata"`
	CreatedAt       time.Time       `db:"created_at"`
}
