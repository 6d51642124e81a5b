package application

import (
	"context"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations.
// Every repository obtained from a unit of work shares one database
// transaction, so a bet's wallet debit, bet row and pool increment commit or
// roll back together.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes buffered events
	Commit() error

	// Rollback rolls back the transaction and discards buffered events
	Rollback() error

	// Repository getters
	PredictionRepository() interfaces.PredictionRepository
	BetRepository() interfaces.BetRepository
	WalletRepository() interfaces.WalletRepository
	PointTransactionRepository() interfaces.PointTransactionRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
