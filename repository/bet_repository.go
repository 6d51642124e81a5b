package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/database"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/entities"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/interfaces"
)

type betRepository struct {
	q Queryable
}

// NewBetRepository creates a new bet repository
func NewBetRepository(db *database.DB) interfaces.BetRepository {
	return &betRepository{q: db.Pool}
}

// newBetRepository creates a new bet repository with a transaction
func newBetRepository(tx Queryable) interfaces.BetRepository {
	return &betRepository{q: tx}
}

func (r *betRepository) Create(ctx context.Context, bet *entities.Bet) error {
	query := `
		INSERT INTO bets (prediction_id, user_id, amount, predicted_outcome)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		bet.PredictionID,
		bet.UserID,
		bet.Amount,
		bet.PredictedOutcome,
	).Scan(&bet.ID, &bet.CreatedAt)

	if err != nil {
		// The unique constraint backs the one-bet-per-user rule even when two
		// requests race past the duplicate check
		if isUniqueViolation(err) {
			return domain.NewValidationError("user %d already has a bet on prediction %d", bet.UserID, bet.PredictionID)
		}
		return translateError("create bet", err)
	}

	return nil
}

func (r *betRepository) GetByPrediction(ctx context.Context, predictionID int64) ([]*entities.Bet, error) {
	query := `
		SELECT id, prediction_id, user_id, amount, predicted_outcome, payout, created_at
		FROM bets
		WHERE prediction_id = $1
		ORDER BY id`

	rows, err := r.q.Query(ctx, query, predictionID)
	if err != nil {
		return nil, translateError("query bets", err)
	}
	defer rows.Close()

	var bets []*entities.Bet
	for rows.Next() {
		var bet entities.Bet
		err := rows.Scan(
			&bet.ID,
			&bet.PredictionID,
			&bet.UserID,
			&bet.Amount,
			&bet.PredictedOutcome,
			&bet.Payout,
			&bet.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, &bet)
	}

	return bets, nil
}

func (r *betRepository) GetByUserAndPrediction(ctx context.Context, predictionID, userID int64) (*entities.Bet, error) {
	query := `
		SELECT id, prediction_id, user_id, amount, predicted_outcome, payout, created_at
		FROM bets
		WHERE prediction_id = $1 AND user_id = $2`

	var bet entities.Bet
	err := r.q.QueryRow(ctx, query, predictionID, userID).Scan(
		&bet.ID,
		&bet.PredictionID,
		&bet.UserID,
		&bet.Amount,
		&bet.PredictedOutcome,
		&bet.Payout,
		&bet.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, translateError("get bet", err)
	}

	return &bet, nil
}

// UpdatePayouts persists the payout for every settled bet in one statement
func (r *betRepository) UpdatePayouts(ctx context.Context, bets []*entities.Bet) error {
	if len(bets) == 0 {
		return nil
	}

	ids := make([]int64, len(bets))
	payouts := make([]int64, len(bets))
	for i, bet := range bets {
		if bet.Payout == nil {
			return fmt.Errorf("bet %d has no payout to persist", bet.ID)
		}
		ids[i] = bet.ID
		payouts[i] = *bet.Payout
	}

	query := `
		UPDATE bets
		SET payout = v.payout
		FROM (SELECT UNNEST($1::bigint[]) AS id, UNNEST($2::bigint[]) AS payout) v
		WHERE bets.id = v.id`

	tag, err := r.q.Exec(ctx, query, ids, payouts)
	if err != nil {
		return translateError("update payouts", err)
	}
	if tag.RowsAffected() != int64(len(bets)) {
		return fmt.Errorf("expected to settle %d bets, settled %d", len(bets), tag.RowsAffected())
	}

	return nil
}
