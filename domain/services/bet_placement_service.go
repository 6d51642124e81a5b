package services

import (
	"context"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/config"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/entities"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/events"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/interfaces"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/utils"

	log "github.com/sirupsen/logrus"
)

type betPlacementService struct {
	config         *config.Config
	predictionRepo interfaces.PredictionRepository
	betRepo        interfaces.BetRepository
	walletRepo     interfaces.WalletRepository
	ledgerRepo     interfaces.PointTransactionRepository
	eventPublisher interfaces.EventPublisher
}

// NewBetPlacementService creates a new bet placement service. The repositories
// must share one transaction; placement is a single atomic unit.
func NewBetPlacementService(
	predictionRepo interfaces.PredictionRepository,
	betRepo interfaces.BetRepository,
	walletRepo interfaces.WalletRepository,
	ledgerRepo interfaces.PointTransactionRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.BetPlacementService {
	return &betPlacementService{
		config:         config.Get(),
		predictionRepo: predictionRepo,
		betRepo:        betRepo,
		walletRepo:     walletRepo,
		ledgerRepo:     ledgerRepo,
		eventPublisher: eventPublisher,
	}
}

// PlaceBet validates and records a new stake. The wallet debit, bet insert
// and pool increment all happen against the shared transaction, so a failure
// at any step leaves no partial effect behind.
func (s *betPlacementService) PlaceBet(ctx context.Context, predictionID, userID, amount int64, outcome entities.Outcome) (*entities.Bet, error) {
	if userID <= 0 {
		return nil, domain.NewAuthorizationError("an authenticated user is required to place bets")
	}
	if amount <= 0 {
		return nil, domain.NewValidationError("bet amount must be positive")
	}

	// Row lock keeps the prediction's status and pools stable for the rest
	// of the transaction, including against a concurrent resolve.
	prediction, err := s.predictionRepo.GetByIDForUpdate(ctx, predictionID)
	if err != nil {
		return nil, err
	}
	if prediction == nil {
		return nil, &domain.NotFoundError{Resource: "prediction", ID: predictionID}
	}

	if !prediction.IsOpen() {
		switch prediction.Status {
		case entities.PredictionStatusLocked:
			return nil, domain.NewValidationError("betting is locked for this prediction")
		case entities.PredictionStatusResolved:
			return nil, domain.NewValidationError("cannot place bets on a resolved prediction")
		default:
			return nil, domain.NewValidationError("prediction is not accepting bets (status: %s)", prediction.Status)
		}
	}

	if !prediction.AmountInRange(amount) {
		return nil, domain.NewValidationError("bet amount must be between %d and %d points", prediction.MinBet, prediction.MaxBet)
	}

	existing, err := s.betRepo.GetByUserAndPrediction(ctx, predictionID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewValidationError("a bet has already been placed on this prediction")
	}

	// Provision the wallet on first contact so new viewers can bet right away.
	// The starting grant gets its own ledger entry, same as the wallet path.
	wallet, created, err := s.walletRepo.GetOrCreate(ctx, userID, s.config.StartingBalance)
	if err != nil {
		return nil, err
	}
	if created {
		grant := &entities.PointTransaction{
			UserID:          userID,
			BalanceBefore:   0,
			BalanceAfter:    wallet.Points,
			ChangeAmount:    wallet.Points,
			TransactionType: entities.TransactionTypeInitial,
		}
		if err := utils.RecordBalanceChange(ctx, s.ledgerRepo, s.eventPublisher, grant); err != nil {
			return nil, err
		}
	}

	// Conditional decrement: fails cleanly instead of going negative when two
	// stakes race on the same wallet.
	newBalance, debited, err := s.walletRepo.Debit(ctx, userID, amount)
	if err != nil {
		return nil, err
	}
	if !debited {
		return nil, &domain.InsufficientFundsError{UserID: userID, Requested: amount}
	}

	bet := &entities.Bet{
		PredictionID:     predictionID,
		UserID:           userID,
		Amount:           amount,
		PredictedOutcome: outcome,
	}
	if err := s.betRepo.Create(ctx, bet); err != nil {
		return nil, err
	}

	if err := s.predictionRepo.AddToPool(ctx, predictionID, outcome, amount); err != nil {
		return nil, err
	}

	txn := &entities.PointTransaction{
		UserID:          userID,
		BalanceBefore:   newBalance + amount,
		BalanceAfter:    newBalance,
		ChangeAmount:    -amount,
		TransactionType: entities.TransactionTypeBetPlaced,
		PredictionID:    &predictionID,
		Metadata: map[string]any{
			"bet_id":            bet.ID,
			"predicted_outcome": string(outcome),
		},
	}
	if err := utils.RecordBalanceChange(ctx, s.ledgerRepo, s.eventPublisher, txn); err != nil {
		return nil, err
	}

	if err := s.eventPublisher.Publish(events.BetPlacedEvent{
		BetID:            bet.ID,
		PredictionID:     predictionID,
		UserID:           userID,
		Amount:           amount,
		PredictedOutcome: outcome,
	}); err != nil {
		log.WithError(err).Error("Failed to publish bet placed event")
	}

	return bet, nil
}
