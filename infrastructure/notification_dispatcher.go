package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/events"

	log "github.com/sirupsen/logrus"
)

// NotificationDeliverer sends a winner notification to its delivery channel.
// Delivery is best-effort; a returned error triggers redelivery through the
// durable consumer, never a settlement change.
type NotificationDeliverer func(ctx context.Context, notification events.WinnerNotificationEvent) error

// WinnerNotificationDispatcher drains winner notifications from the domain
// event stream and hands them to the configured deliverer.
type WinnerNotificationDispatcher struct {
	client  *NATSClient
	mapper  *EventSubjectMapper
	deliver NotificationDeliverer
}

// NewWinnerNotificationDispatcher creates a dispatcher that logs deliveries.
// External channels (chat bot, push, email) plug in via WithDeliverer.
func NewWinnerNotificationDispatcher(client *NATSClient, mapper *EventSubjectMapper) *WinnerNotificationDispatcher {
	return &WinnerNotificationDispatcher{
		client:  client,
		mapper:  mapper,
		deliver: logDelivery,
	}
}

// WithDeliverer replaces the delivery channel
func (d *WinnerNotificationDispatcher) WithDeliverer(deliver NotificationDeliverer) *WinnerNotificationDispatcher {
	d.deliver = deliver
	return d
}

// Start subscribes the dispatcher to the winner notification subject using a
// durable consumer, so notifications survive restarts between publish and
// delivery
func (d *WinnerNotificationDispatcher) Start() error {
	if !d.client.IsConnected() {
		return fmt.Errorf("cannot start notification dispatcher: NATS is not connected")
	}

	subject := d.mapper.MapEventToSubject(events.WinnerNotificationEvent{})
	if err := d.client.Subscribe(subject, d.handleMessage); err != nil {
		return fmt.Errorf("failed to subscribe notification dispatcher: %w", err)
	}

	log.WithField("subject", subject).Info("Winner notification dispatcher started")
	return nil
}

func (d *WinnerNotificationDispatcher) handleMessage(data []byte) error {
	var envelope EventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}

	if envelope.EventType != string(events.EventTypeWinnerNotification) {
		// Other event types are not ours to deliver
		return nil
	}

	var notification events.WinnerNotificationEvent
	if err := json.Unmarshal(envelope.Payload, &notification); err != nil {
		return fmt.Errorf("failed to unmarshal winner notification: %w", err)
	}

	return d.deliver(context.Background(), notification)
}

func logDelivery(_ context.Context, notification events.WinnerNotificationEvent) error {
	log.WithFields(log.Fields{
		"userId": notification.UserID,
		"title":  notification.Title,
		"type":   notification.NotificationType,
	}).Info("Delivered winner notification")
	return nil
}
