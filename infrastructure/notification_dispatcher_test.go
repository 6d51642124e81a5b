package infrastructure

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelopeBytes(t *testing.T, eventType events.EventType, payload any) []byte {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	envelope := EventEnvelope{
		EventID:       "test-event",
		EventType:     string(eventType),
		Timestamp:     time.Now().UTC(),
		SourceService: "prediction-engine",
		Payload:       data,
	}
	raw, err := json.Marshal(envelope)
	require.NoError(t, err)
	return raw
}

func TestWinnerNotificationDispatcher_HandleMessage(t *testing.T) {
	var delivered []events.WinnerNotificationEvent
	dispatcher := NewWinnerNotificationDispatcher(NewNATSClient(""), NewEventSubjectMapper()).
		WithDeliverer(func(_ context.Context, n events.WinnerNotificationEvent) error {
			delivered = append(delivered, n)
			return nil
		})

	notification := events.WinnerNotificationEvent{
		UserID:           111111,
		Title:            "You won!",
		Message:          "Your prediction paid out 133 points",
		NotificationType: "prediction_winner",
	}

	err := dispatcher.handleMessage(envelopeBytes(t, events.EventTypeWinnerNotification, notification))

	require.NoError(t, err)
	require.Len(t, delivered, 1)
	assert.Equal(t, int64(111111), delivered[0].UserID)
	assert.Equal(t, "You won!", delivered[0].Title)
}

func TestWinnerNotificationDispatcher_IgnoresOtherEventTypes(t *testing.T) {
	var delivered []events.WinnerNotificationEvent
	dispatcher := NewWinnerNotificationDispatcher(NewNATSClient(""), NewEventSubjectMapper()).
		WithDeliverer(func(_ context.Context, n events.WinnerNotificationEvent) error {
			delivered = append(delivered, n)
			return nil
		})

	bet := events.BetPlacedEvent{BetID: 1, PredictionID: 2, UserID: 3, Amount: 100}
	err := dispatcher.handleMessage(envelopeBytes(t, events.EventTypeBetPlaced, bet))

	require.NoError(t, err)
	assert.Empty(t, delivered)
}

func TestWinnerNotificationDispatcher_MalformedEnvelope(t *testing.T) {
	dispatcher := NewWinnerNotificationDispatcher(NewNATSClient(""), NewEventSubjectMapper())

	err := dispatcher.handleMessage([]byte("not json"))

	assert.Error(t, err)
}

func TestWinnerNotificationDispatcher_StartRequiresConnection(t *testing.T) {
	dispatcher := NewWinnerNotificationDispatcher(NewNATSClient("nats://localhost:4222"), NewEventSubjectMapper())

	err := dispatcher.Start()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")
}
