package infrastructure

import (
	"fmt"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeBalanceChange:
		return "wallets.balance_changed"
	case events.EventTypeBetPlaced:
		return "predictions.bets.placed"
	case events.EventTypePredictionStateChange:
		return "predictions.state_changed"
	case events.EventTypeWinnerNotification:
		return "notifications.prediction_winner"
	default:
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "wallets.balance_changed":
		return events.EventTypeBalanceChange
	case "predictions.bets.placed":
		return events.EventTypeBetPlaced
	case "predictions.state_changed":
		return events.EventTypePredictionStateChange
	case "notifications.prediction_winner":
		return events.EventTypeWinnerNotification
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"wallets.balance_changed",
		"predictions.bets.placed",
		"predictions.state_changed",
		"notifications.prediction_winner",
	}
}
