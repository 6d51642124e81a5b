package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/database"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/entities"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/interfaces"
)

type walletRepository struct {
	q Queryable
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *database.DB) interfaces.WalletRepository {
	return &walletRepository{q: db.Pool}
}

// newWalletRepository creates a new wallet repository with a transaction
func newWalletRepository(tx Queryable) interfaces.WalletRepository {
	return &walletRepository{q: tx}
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID int64) (*entities.Wallet, error) {
	query := `
		SELECT user_id, points, created_at, updated_at
		FROM wallets
		WHERE user_id = $1`

	var wallet entities.Wallet
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&wallet.UserID,
		&wallet.Points,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, translateError("get wallet", err)
	}

	return &wallet, nil
}

// GetOrCreate provisions the wallet with the initial balance on first access.
// ON CONFLICT makes concurrent first accesses converge on a single row
// without ever resetting an existing balance. The returned boolean is true
// only for the caller whose insert actually landed, so exactly one of two
// racing first accesses sees it.
func (r *walletRepository) GetOrCreate(ctx context.Context, userID int64, initialBalance int64) (*entities.Wallet, bool, error) {
	query := `
		INSERT INTO wallets (user_id, points)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING user_id, points, created_at, updated_at`

	var wallet entities.Wallet
	err := r.q.QueryRow(ctx, query, userID, initialBalance).Scan(
		&wallet.UserID,
		&wallet.Points,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		// Row already existed; the insert returned nothing
		existing, err := r.GetByUserID(ctx, userID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, translateError("create wallet", err)
	}

	return &wallet, true, nil
}

// Debit subtracts amount only when the balance covers it. The conditional
// update makes concurrent debits on one wallet safe: the row lock serializes
// them and the predicate rejects whichever one would overdraw.
func (r *walletRepository) Debit(ctx context.Context, userID int64, amount int64) (int64, bool, error) {
	query := `
		UPDATE wallets
		SET points = points - $2, updated_at = NOW()
		WHERE user_id = $1 AND points >= $2
		RETURNING points`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, userID, amount).Scan(&newBalance)

	if err == pgx.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, translateError("debit wallet", err)
	}

	return newBalance, true, nil
}

func (r *walletRepository) Credit(ctx context.Context, userID int64, amount int64) (int64, error) {
	query := `
		UPDATE wallets
		SET points = points + $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING points`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, userID, amount).Scan(&newBalance)

	if err == pgx.ErrNoRows {
		return 0, &domain.NotFoundError{Resource: "wallet", ID: userID}
	}
	if err != nil {
		return 0, translateError("credit wallet", err)
	}

	return newBalance, nil
}
