package utils

import (
	"context"
	"fmt"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/entities"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/events"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/interfaces"
	log "github.com/sirupsen/logrus"
)

// RecordBalanceChange records a ledger entry and emits the matching event.
// This is the single entry point for all wallet balance changes in the system.
func RecordBalanceChange(ctx context.Context, ledgerRepo interfaces.PointTransactionRepository, eventPublisher interfaces.EventPublisher, txn *entities.PointTransaction) error {
	// Record the ledger entry
	if err := ledgerRepo.Record(ctx, txn); err != nil {
		return fmt.Errorf("failed to record point transaction: %w", err)
	}

	// Emit balance change event
	event := events.BalanceChangeEvent{
		UserID:          txn.UserID,
		OldBalance:      txn.BalanceBefore,
		NewBalance:      txn.BalanceAfter,
		TransactionType: txn.TransactionType,
		ChangeAmount:    txn.ChangeAmount,
	}
	log.WithFields(log.Fields{
		"userID":          event.UserID,
		"oldBalance":      event.OldBalance,
		"newBalance":      event.NewBalance,
		"transactionType": event.TransactionType,
		"changeAmount":    event.ChangeAmount,
	}).Debug("Publishing BalanceChangeEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	return nil
}
