package services

import (
	"context"
	"fmt"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/config"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/entities"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/events"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/interfaces"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/utils"

	log "github.com/sirupsen/logrus"
)

type settlementEngine struct {
	config         *config.Config
	predictionRepo interfaces.PredictionRepository
	betRepo        interfaces.BetRepository
	walletRepo     interfaces.WalletRepository
	ledgerRepo     interfaces.PointTransactionRepository
	eventPublisher interfaces.EventPublisher
}

// NewSettlementEngine creates a new settlement engine. The repositories must
// share one transaction; settlement is all-or-nothing.
func NewSettlementEngine(
	predictionRepo interfaces.PredictionRepository,
	betRepo interfaces.BetRepository,
	walletRepo interfaces.WalletRepository,
	ledgerRepo interfaces.PointTransactionRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.SettlementEngine {
	return &settlementEngine{
		config:         config.Get(),
		predictionRepo: predictionRepo,
		betRepo:        betRepo,
		walletRepo:     walletRepo,
		ledgerRepo:     ledgerRepo,
		eventPublisher: eventPublisher,
	}
}

// IsOperator checks if a user may lock or resolve predictions
func (s *settlementEngine) IsOperator(userID int64) bool {
	for _, operatorID := range s.config.OperatorUserIDs {
		if userID == operatorID {
			return true
		}
	}
	return false
}

// Resolve declares the outcome of a prediction, computes every bet's
// pari-mutuel payout, credits winners and closes the prediction.
//
// The prediction row stays exclusively locked for the whole read-compute-write
// sequence, so no bet can land after the pool snapshot and a concurrent
// resolve blocks on the lock, then fails the status check. If anything below
// errors, the enclosing transaction rolls back and the prediction stays in
// its pre-settlement status, making a retry safe.
func (s *settlementEngine) Resolve(ctx context.Context, predictionID int64, operatorID *int64, outcome entities.Outcome) (*entities.SettlementResult, error) {
	// Skip the operator check for system resolution when operatorID is nil
	if operatorID != nil && !s.IsOperator(*operatorID) {
		return nil, domain.NewAuthorizationError("user %d is not authorized to resolve predictions", *operatorID)
	}

	prediction, err := s.predictionRepo.GetByIDForUpdate(ctx, predictionID)
	if err != nil {
		return nil, err
	}
	if prediction == nil {
		return nil, &domain.NotFoundError{Resource: "prediction", ID: predictionID}
	}

	if !prediction.CanResolve() {
		return nil, domain.NewValidationError("prediction cannot be resolved (current status: %s)", prediction.Status)
	}

	bets, err := s.betRepo.GetByPrediction(ctx, predictionID)
	if err != nil {
		return nil, err
	}

	// Pool snapshot; the row lock guarantees these cannot move underneath us
	winningPool := prediction.PoolFor(outcome)
	losingPool := prediction.PoolFor(outcome.Opposite())
	totalPool := winningPool + losingPool

	var winners, losers []*entities.Bet
	payouts := make(map[int64]int64)
	paid := int64(0)

	for _, bet := range bets {
		payout := bet.PayoutFor(outcome, winningPool, totalPool)
		bet.Payout = &payout
		payouts[bet.UserID] = payout
		if bet.WonWith(outcome) && winningPool > 0 {
			winners = append(winners, bet)
			paid += payout
		} else {
			// Losing side, or the degenerate empty winning pool: stakes are
			// retained, payout recorded as an explicit zero
			losers = append(losers, bet)
		}
	}

	// Floor division can only lose the remainder, never overpay
	if paid > totalPool {
		return nil, fmt.Errorf("settlement invariant violated: computed payouts %d exceed total pool %d", paid, totalPool)
	}

	if err := s.betRepo.UpdatePayouts(ctx, bets); err != nil {
		return nil, err
	}

	for _, winner := range winners {
		payout := *winner.Payout
		if payout == 0 {
			continue
		}
		newBalance, err := s.walletRepo.Credit(ctx, winner.UserID, payout)
		if err != nil {
			return nil, err
		}

		txn := &entities.PointTransaction{
			UserID:          winner.UserID,
			BalanceBefore:   newBalance - payout,
			BalanceAfter:    newBalance,
			ChangeAmount:    payout,
			TransactionType: entities.TransactionTypePayout,
			PredictionID:    &predictionID,
			Metadata: map[string]any{
				"bet_id":     winner.ID,
				"bet_amount": winner.Amount,
				"outcome":    string(outcome),
			},
		}
		if err := utils.RecordBalanceChange(ctx, s.ledgerRepo, s.eventPublisher, txn); err != nil {
			return nil, err
		}

		if err := s.eventPublisher.Publish(events.WinnerNotificationEvent{
			UserID:           winner.UserID,
			Title:            "Prediction won!",
			Message:          fmt.Sprintf("Your bet on %q paid out %d points", prediction.Title, payout),
			NotificationType: "prediction_payout",
			Link:             fmt.Sprintf("/predictions/%d", predictionID),
		}); err != nil {
			log.WithError(err).Error("Failed to publish winner notification event")
		}
	}

	oldStatus := prediction.Status
	prediction.Resolve(outcome)
	if err := s.predictionRepo.Update(ctx, prediction); err != nil {
		return nil, err
	}

	if err := s.eventPublisher.Publish(events.PredictionStateChangeEvent{
		PredictionID: predictionID,
		OldStatus:    string(oldStatus),
		NewStatus:    string(prediction.Status),
		Outcome:      prediction.Outcome,
	}); err != nil {
		log.WithError(err).Error("Failed to publish prediction state change event")
	}

	log.WithFields(log.Fields{
		"predictionID": predictionID,
		"outcome":      outcome,
		"totalPool":    totalPool,
		"winningPool":  winningPool,
		"winners":      len(winners),
		"losers":       len(losers),
		"paidOut":      paid,
	}).Info("Prediction resolved")

	return &entities.SettlementResult{
		Prediction: prediction,
		Winners:    winners,
		Losers:     losers,
		TotalPool:  totalPool,
		Payouts:    payouts,
	}, nil
}
