package services

import (
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/entities"
)

// Shared test identifiers. TestOperatorID matches the default operator list
// in config.NewTestConfig.
const (
	TestOperatorID int64 = 999999
	TestUser1ID    int64 = 111111
	TestUser2ID    int64 = 222222
	TestUser3ID    int64 = 333333
)

// newTestPrediction builds a prediction in the given status with the given pools
func newTestPrediction(id int64, status entities.PredictionStatus, poolA, poolB int64) *entities.Prediction {
	return &entities.Prediction{
		ID:           id,
		Title:        "Will the speedrun finish under 2 hours?",
		OptionALabel: "Yes",
		OptionBLabel: "No",
		Status:       status,
		OptionAPool:  poolA,
		OptionBPool:  poolB,
		MinBet:       10,
		MaxBet:       10000,
	}
}

// newTestBet builds an unsettled bet
func newTestBet(id, predictionID, userID, amount int64, outcome entities.Outcome) *entities.Bet {
	return &entities.Bet{
		ID:               id,
		PredictionID:     predictionID,
		UserID:           userID,
		Amount:           amount,
		PredictedOutcome: outcome,
	}
}
