package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventPublisher defines the interface for publishing notification events
type EventPublisher interface {
	PublishNotificationEvent(ctx context.Context, event *NotificationEvent) error
	Close() error
}

// ChannelEventPublisher implements EventPublisher using Watermill's in-process
// GoChannel pub/sub. Publishing with no subscribers drops the message instead
// of blocking, so the engine never depends on a consumer being attached.
type ChannelEventPublisher struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
	topic  string
}

// PublisherConfig holds configuration for the event publisher
type PublisherConfig struct {
	Topic      string
	BufferSize int64
	Logger     *slog.Logger
}

// NewChannelEventPublisher creates an in-process event publisher using Watermill
func NewChannelEventPublisher(config PublisherConfig) *ChannelEventPublisher {
	logger := watermill.NewSlogLogger(config.Logger)

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: config.BufferSize,
	}, logger)

	return &ChannelEventPublisher{
		pubsub: pubsub,
		logger: config.Logger,
		topic:  config.Topic,
	}
}

// PublishNotificationEvent publishes a notification event to the channel topic
func (p *ChannelEventPublisher) PublishNotificationEvent(ctx context.Context, event *NotificationEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	msg := message.NewMessage(event.ID, eventBytes)
	msg.SetContext(ctx)

	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("source", event.Source)
	msg.Metadata.Set("version", event.Version)
	msg.Metadata.Set("timestamp", event.Timestamp.Format("2006-01-02T15:04:05Z07:00"))

	if err := p.pubsub.Publish(p.topic, msg); err != nil {
		p.logger.Error("Failed to publish notification event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return fmt.Errorf("failed to publish notification event: %w", err)
	}

	p.logger.Debug("Published notification event",
		"event_id", event.ID,
		"event_type", event.Type,
		"topic", p.topic)

	return nil
}

// Subscribe returns a channel of raw notification messages for consumers
// such as a UI layer. Each message payload is a JSON NotificationEvent.
func (p *ChannelEventPublisher) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return p.pubsub.Subscribe(ctx, p.topic)
}

// Close closes the publisher and releases resources
func (p *ChannelEventPublisher) Close() error {
	return p.pubsub.Close()
}

// MockEventPublisher is a mock implementation for testing
type MockEventPublisher struct {
	Events []NotificationEvent
	Logger *slog.Logger
}

// NewMockEventPublisher creates a new mock event publisher
func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{
		Events: make([]NotificationEvent, 0),
		Logger: logger,
	}
}

// PublishNotificationEvent stores the event in memory (for testing)
func (m *MockEventPublisher) PublishNotificationEvent(ctx context.Context, event *NotificationEvent) error {
	m.Events = append(m.Events, *event)
	m.Logger.Debug("Mock: Published notification event",
		"event_id", event.ID,
		"event_type", event.Type)
	return nil
}

// Close is a no-op for the mock publisher
func (m *MockEventPublisher) Close() error {
	return nil
}

// GetPublishedEvents returns all published events (for testing)
func (m *MockEventPublisher) GetPublishedEvents() []NotificationEvent {
	return m.Events
}

// ClearEvents clears all published events (for testing)
func (m *MockEventPublisher) ClearEvents() {
	m.Events = make([]NotificationEvent, 0)
}
