package interfaces

import (
	"context"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/entities"
)

// BetPlacementService validates and records new stakes
type BetPlacementService interface {
	// PlaceBet debits the wallet, records the bet and grows the matching
	// pool as one atomic unit
	PlaceBet(ctx context.Context, predictionID, userID, amount int64, outcome entities.Outcome) (*entities.Bet, error)
}

// SettlementEngine settles predictions and distributes pari-mutuel payouts
type SettlementEngine interface {
	// Resolve declares the outcome, computes every bet's payout, credits
	// winners and closes the prediction. operatorID nil means a trusted
	// system caller.
	Resolve(ctx context.Context, predictionID int64, operatorID *int64, outcome entities.Outcome) (*entities.SettlementResult, error)

	// IsOperator checks if a user may lock or resolve predictions
	IsOperator(userID int64) bool
}

// PredictionService covers prediction lifecycle and read operations
type PredictionService interface {
	// CreatePrediction opens a new two-outcome prediction. Operator only.
	CreatePrediction(ctx context.Context, operatorID *int64, title, optionA, optionB string, minBet, maxBet int64) (*entities.Prediction, error)

	// Lock freezes new stakes on an open prediction. Operator only.
	Lock(ctx context.Context, predictionID int64, operatorID *int64) (*entities.Prediction, error)

	// ListActivePredictions returns open and locked predictions
	ListActivePredictions(ctx context.Context) ([]*entities.Prediction, error)

	// GetPrediction returns a single prediction by ID
	GetPrediction(ctx context.Context, predictionID int64) (*entities.Prediction, error)

	// GetUserBet returns a user's bet on a prediction, or nil if none exists
	GetUserBet(ctx context.Context, predictionID, userID int64) (*entities.Bet, error)
}

// WalletService covers wallet reads and provisioning
type WalletService interface {
	// GetOrCreateWallet returns the user's wallet, provisioning it with the
	// configured starting balance on first access
	GetOrCreateWallet(ctx context.Context, userID int64) (*entities.Wallet, error)

	// GetTransactionHistory returns recent ledger entries for a user
	GetTransactionHistory(ctx context.Context, userID int64, limit int) ([]*entities.PointTransaction, error)
}
