package services

import (
	"context"
	"strings"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/config"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/entities"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/events"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type predictionService struct {
	config         *config.Config
	predictionRepo interfaces.PredictionRepository
	betRepo        interfaces.BetRepository
	eventPublisher interfaces.EventPublisher
}

// NewPredictionService creates a new prediction lifecycle service
func NewPredictionService(
	predictionRepo interfaces.PredictionRepository,
	betRepo interfaces.BetRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.PredictionService {
	return &predictionService{
		config:         config.Get(),
		predictionRepo: predictionRepo,
		betRepo:        betRepo,
		eventPublisher: eventPublisher,
	}
}

func (s *predictionService) isOperator(userID int64) bool {
	for _, operatorID := range s.config.OperatorUserIDs {
		if userID == operatorID {
			return true
		}
	}
	return false
}

// CreatePrediction opens a new two-outcome prediction
func (s *predictionService) CreatePrediction(ctx context.Context, operatorID *int64, title, optionA, optionB string, minBet, maxBet int64) (*entities.Prediction, error) {
	if operatorID != nil && !s.isOperator(*operatorID) {
		return nil, domain.NewAuthorizationError("user %d is not authorized to create predictions", *operatorID)
	}

	title = strings.TrimSpace(title)
	optionA = strings.TrimSpace(optionA)
	optionB = strings.TrimSpace(optionB)
	if title == "" {
		return nil, domain.NewValidationError("title cannot be empty")
	}
	if optionA == "" || optionB == "" {
		return nil, domain.NewValidationError("both outcome labels are required")
	}
	if strings.EqualFold(optionA, optionB) {
		return nil, domain.NewValidationError("outcome labels must be distinct")
	}
	if minBet < 1 {
		return nil, domain.NewValidationError("minimum bet must be at least 1 point")
	}
	if maxBet < minBet {
		return nil, domain.NewValidationError("maximum bet must not be below the minimum bet")
	}

	prediction := &entities.Prediction{
		Title:        title,
		OptionALabel: optionA,
		OptionBLabel: optionB,
		Status:       entities.PredictionStatusOpen,
		MinBet:       minBet,
		MaxBet:       maxBet,
	}
	if err := s.predictionRepo.Create(ctx, prediction); err != nil {
		return nil, err
	}

	return prediction, nil
}

// Lock freezes new stakes on an open prediction
func (s *predictionService) Lock(ctx context.Context, predictionID int64, operatorID *int64) (*entities.Prediction, error) {
	if operatorID != nil && !s.isOperator(*operatorID) {
		return nil, domain.NewAuthorizationError("user %d is not authorized to lock predictions", *operatorID)
	}

	prediction, err := s.predictionRepo.GetByIDForUpdate(ctx, predictionID)
	if err != nil {
		return nil, err
	}
	if prediction == nil {
		return nil, &domain.NotFoundError{Resource: "prediction", ID: predictionID}
	}

	if !prediction.IsOpen() {
		return nil, domain.NewValidationError("only open predictions can be locked (current status: %s)", prediction.Status)
	}

	oldStatus := prediction.Status
	prediction.Lock()
	if err := s.predictionRepo.Update(ctx, prediction); err != nil {
		return nil, err
	}

	if err := s.eventPublisher.Publish(events.PredictionStateChangeEvent{
		PredictionID: predictionID,
		OldStatus:    string(oldStatus),
		NewStatus:    string(prediction.Status),
	}); err != nil {
		log.WithError(err).Error("Failed to publish prediction state change event")
	}

	return prediction, nil
}

// ListActivePredictions returns open and locked predictions
func (s *predictionService) ListActivePredictions(ctx context.Context) ([]*entities.Prediction, error) {
	return s.predictionRepo.ListActive(ctx)
}

// GetPrediction returns a single prediction by ID
func (s *predictionService) GetPrediction(ctx context.Context, predictionID int64) (*entities.Prediction, error) {
	prediction, err := s.predictionRepo.GetByID(ctx, predictionID)
	if err != nil {
		return nil, err
	}
	if prediction == nil {
		return nil, &domain.NotFoundError{Resource: "prediction", ID: predictionID}
	}
	return prediction, nil
}

// GetUserBet returns a user's bet on a prediction, or nil if none exists
func (s *predictionService) GetUserBet(ctx context.Context, predictionID, userID int64) (*entities.Bet, error) {
	return s.betRepo.GetByUserAndPrediction(ctx, predictionID, userID)
}
