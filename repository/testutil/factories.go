package testutil

import (
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/entities"
)

// NewOpenPrediction builds an unsaved open prediction with default bet limits
func NewOpenPrediction(title string) *entities.Prediction {
	return &entities.Prediction{
		Title:        title,
		OptionALabel: "Yes",
		OptionBLabel: "No",
		Status:       entities.PredictionStatusOpen,
		MinBet:       10,
		MaxBet:       10000,
	}
}

// NewBet builds an unsaved bet
func NewBet(predictionID, userID, amount int64, outcome entities.Outcome) *entities.Bet {
	return &entities.Bet{
		PredictionID:     predictionID,
		UserID:           userID,
		Amount:           amount,
		PredictedOutcome: outcome,
	}
}
