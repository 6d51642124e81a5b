package interfaces

import (
	"context"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/entities"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/events"
)

// PredictionRepository defines the interface for prediction data access
type PredictionRepository interface {
	// Create creates a new prediction in the open state
	Create(ctx context.Context, prediction *entities.Prediction) error

	// GetByID retrieves a prediction by its ID
	GetByID(ctx context.Context, id int64) (*entities.Prediction, error)

	// GetByIDForUpdate retrieves a prediction by ID with a row lock held for
	// the remainder of the transaction
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Prediction, error)

	// Update persists the prediction's status, outcome, timestamps and pool snapshots
	Update(ctx context.Context, prediction *entities.Prediction) error

	// AddToPool atomically grows the pool accumulator for one outcome
	AddToPool(ctx context.Context, id int64, outcome entities.Outcome, amount int64) error

	// ListActive returns all predictions that have not been resolved
	ListActive(ctx context.Context) ([]*entities.Prediction, error)
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	// Create creates a new bet record
	Create(ctx context.Context, bet *entities.Bet) error

	// GetByPrediction returns every bet placed on a prediction
	GetByPrediction(ctx context.Context, predictionID int64) ([]*entities.Bet, error)

	// GetByUserAndPrediction returns a user's bet on a prediction, or nil
	GetByUserAndPrediction(ctx context.Context, predictionID, userID int64) (*entities.Bet, error)

	// UpdatePayouts persists the payout for every settled bet
	UpdatePayouts(ctx context.Context, bets []*entities.Bet) error
}

// WalletRepository defines the interface for wallet data access
type WalletRepository interface {
	// GetByUserID retrieves a wallet, or nil if the user has none
	GetByUserID(ctx context.Context, userID int64) (*entities.Wallet, error)

	// GetOrCreate retrieves a wallet, creating it with the initial balance if
	// absent. The boolean reports whether this call inserted the row, so the
	// caller can record the initial grant exactly once.
	GetOrCreate(ctx context.Context, userID int64, initialBalance int64) (*entities.Wallet, bool, error)

	// Debit atomically subtracts amount from the wallet if the balance covers
	// it. Returns the new balance and false when the balance was insufficient.
	Debit(ctx context.Context, userID int64, amount int64) (int64, bool, error)

	// Credit atomically adds amount to the wallet and returns the new balance
	Credit(ctx context.Context, userID int64, amount int64) (int64, error)
}

// PointTransactionRepository defines the interface for the wallet ledger
type PointTransactionRepository interface {
	// Record creates a new ledger entry
	Record(ctx context.Context, txn *entities.PointTransaction) error

	// GetByUser returns recent ledger entries for a user
	GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.PointTransaction, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events for the duration of a
// transaction. Flush delivers the buffer after commit; Discard drops it on
// rollback so observers never see effects that were undone.
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush delivers all buffered events
	Flush(ctx context.Context)

	// Discard drops all buffered events
	Discard()
}
