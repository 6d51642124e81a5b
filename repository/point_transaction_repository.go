package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/database"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/entities"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/interfaces"
)

type pointTransactionRepository struct {
	q Queryable
}

// NewPointTransactionRepository creates a new ledger repository
func NewPointTransactionRepository(db *database.DB) interfaces.PointTransactionRepository {
	return &pointTransactionRepository{q: db.Pool}
}

// newPointTransactionRepository creates a new ledger repository with a transaction
func newPointTransactionRepository(tx Queryable) interfaces.PointTransactionRepository {
	return &pointTransactionRepository{q: tx}
}

func (r *pointTransactionRepository) Record(ctx context.Context, txn *entities.PointTransaction) error {
	query := `
		INSERT INTO point_transactions (user_id, balance_before, balance_after, change_amount, transaction_type, prediction_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	var metadata []byte
	if txn.Metadata != nil {
		var err error
		metadata, err = json.Marshal(txn.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal transaction metadata: %w", err)
		}
	}

	err := r.q.QueryRow(ctx, query,
		txn.UserID,
		txn.BalanceBefore,
		txn.BalanceAfter,
		txn.ChangeAmount,
		txn.TransactionType,
		txn.PredictionID,
		metadata,
	).Scan(&txn.ID, &txn.CreatedAt)

	if err != nil {
		return translateError("record point transaction", err)
	}

	return nil
}

func (r *pointTransactionRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.PointTransaction, error) {
	query := `
		SELECT id, user_id, balance_before, balance_after, change_amount, transaction_type, prediction_id, metadata, created_at
		FROM point_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, translateError("query point transactions", err)
	}
	defer rows.Close()

	var txns []*entities.PointTransaction
	for rows.Next() {
		var txn entities.PointTransaction
		var metadata []byte
		err := rows.Scan(
			&txn.ID,
			&txn.UserID,
			&txn.BalanceBefore,
			&txn.BalanceAfter,
			&txn.ChangeAmount,
			&txn.TransactionType,
			&txn.PredictionID,
			&metadata,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan point transaction: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &txn.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal transaction metadata: %w", err)
			}
		}
		txns = append(txns, &txn)
	}

	return txns, nil
}
