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

const predictionColumns = `id, title, option_a_label, option_b_label, status, outcome,
		option_a_pool, option_b_pool, min_bet, max_bet, profit_pool, loss_pool,
		created_at, locked_at, resolved_at`

type predictionRepository struct {
	q Queryable
}

// NewPredictionRepository creates a new prediction repository
func NewPredictionRepository(db *database.DB) interfaces.PredictionRepository {
	return &predictionRepository{q: db.Pool}
}

// newPredictionRepository creates a new prediction repository with a transaction
func newPredictionRepository(tx Queryable) interfaces.PredictionRepository {
	return &predictionRepository{q: tx}
}

func (r *predictionRepository) Create(ctx context.Context, prediction *entities.Prediction) error {
	query := `
		INSERT INTO predictions (title, option_a_label, option_b_label, status, min_bet, max_bet)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		prediction.Title,
		prediction.OptionALabel,
		prediction.OptionBLabel,
		prediction.Status,
		prediction.MinBet,
		prediction.MaxBet,
	).Scan(&prediction.ID, &prediction.CreatedAt)

	if err != nil {
		return translateError("create prediction", err)
	}

	return nil
}

func (r *predictionRepository) GetByID(ctx context.Context, id int64) (*entities.Prediction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM predictions
		WHERE id = $1`, predictionColumns)

	return r.scanOne(ctx, query, id)
}

// GetByIDForUpdate locks the prediction row until the transaction ends. Every
// write path goes through this before touching pools, bets or status, which
// serializes concurrent bets against a resolve on the same prediction.
func (r *predictionRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Prediction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM predictions
		WHERE id = $1
		FOR UPDATE`, predictionColumns)

	return r.scanOne(ctx, query, id)
}

func (r *predictionRepository) scanOne(ctx context.Context, query string, args ...any) (*entities.Prediction, error) {
	var prediction entities.Prediction
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&prediction.ID,
		&prediction.Title,
		&prediction.OptionALabel,
		&prediction.OptionBLabel,
		&prediction.Status,
		&prediction.Outcome,
		&prediction.OptionAPool,
		&prediction.OptionBPool,
		&prediction.MinBet,
		&prediction.MaxBet,
		&prediction.ProfitPool,
		&prediction.LossPool,
		&prediction.CreatedAt,
		&prediction.LockedAt,
		&prediction.ResolvedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, translateError("get prediction", err)
	}

	return &prediction, nil
}

// Update persists status, outcome, timestamps and pool snapshots. The live
// pool accumulators are only ever changed through AddToPool.
func (r *predictionRepository) Update(ctx context.Context, prediction *entities.Prediction) error {
	query := `
		UPDATE predictions
		SET status = $2, outcome = $3, profit_pool = $4, loss_pool = $5,
			locked_at = $6, resolved_at = $7
		WHERE id = $1`

	tag, err := r.q.Exec(ctx, query,
		prediction.ID,
		prediction.Status,
		prediction.Outcome,
		prediction.ProfitPool,
		prediction.LossPool,
		prediction.LockedAt,
		prediction.ResolvedAt,
	)
	if err != nil {
		return translateError("update prediction", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "prediction", ID: prediction.ID}
	}

	return nil
}

func (r *predictionRepository) AddToPool(ctx context.Context, id int64, outcome entities.Outcome, amount int64) error {
	query := `
		UPDATE predictions
		SET option_a_pool = option_a_pool + $2
		WHERE id = $1`
	if outcome == entities.OutcomeOptionB {
		query = `
		UPDATE predictions
		SET option_b_pool = option_b_pool + $2
		WHERE id = $1`
	}

	tag, err := r.q.Exec(ctx, query, id, amount)
	if err != nil {
		return translateError("add to pool", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "prediction", ID: id}
	}

	return nil
}

func (r *predictionRepository) ListActive(ctx context.Context) ([]*entities.Prediction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM predictions
		WHERE status IN ('open', 'locked')
		ORDER BY created_at DESC`, predictionColumns)

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, translateError("list active predictions", err)
	}
	defer rows.Close()

	var predictions []*entities.Prediction
	for rows.Next() {
		var prediction entities.Prediction
		err := rows.Scan(
			&prediction.ID,
			&prediction.Title,
			&prediction.OptionALabel,
			&prediction.OptionBLabel,
			&prediction.Status,
			&prediction.Outcome,
			&prediction.OptionAPool,
			&prediction.OptionBPool,
			&prediction.MinBet,
			&prediction.MaxBet,
			&prediction.ProfitPool,
			&prediction.LossPool,
			&prediction.CreatedAt,
			&prediction.LockedAt,
			&prediction.ResolvedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, &prediction)
	}

	return predictions, nil
}
