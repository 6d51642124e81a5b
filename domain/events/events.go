package events

import "github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange         EventType = "balance_change"
	EventTypeBetPlaced             EventType = "bet_placed"
	EventTypePredictionStateChange EventType = "prediction_state_change"
	EventTypeWinnerNotification    EventType = "winner_notification"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a wallet balance change that occurred
type BalanceChangeEvent struct {
	UserID          int64
	OldBalance      int64
	NewBalance      int64
	TransactionType entities.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// BetPlacedEvent represents a stake recorded against a prediction
type BetPlacedEvent struct {
	BetID            int64
	PredictionID     int64
	UserID           int64
	Amount           int64
	PredictedOutcome entities.Outcome
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// PredictionStateChangeEvent represents a prediction status transition
type PredictionStateChangeEvent struct {
	PredictionID int64
	OldStatus    string
	NewStatus    string
	Outcome      *entities.Outcome
}

func (e PredictionStateChangeEvent) Type() EventType {
	return EventTypePredictionStateChange
}

// WinnerNotificationEvent carries a best-effort "you won" message for the
// notification dispatcher. Delivery must never affect settlement.
type WinnerNotificationEvent struct {
	UserID           int64
	Title            string
	Message          string
	NotificationType string
	Link             string
}

func (e WinnerNotificationEvent) Type() EventType {
	return EventTypeWinnerNotification
}
