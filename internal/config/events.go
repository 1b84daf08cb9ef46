package config

import (
	"log/slog"

	"github.com/prepforge/mocktest-service/internal/events"
)

// EventConfig holds configuration for event publishing
type EventConfig struct {
	Enabled    bool   `env:"EVENTS_ENABLED" envDefault:"true"`
	Publisher  string `env:"EVENTS_PUBLISHER" envDefault:"channel"` // channel or mock
	Topic      string `env:"NOTIFICATION_TOPIC" envDefault:"mocktest_notifications"`
	BufferSize int64  `env:"EVENTS_BUFFER_SIZE" envDefault:"64"`
}

// CreateEventPublisher creates an event publisher based on configuration
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using mock publisher")
		return events.NewMockEventPublisher(logger), nil
	}

	switch c.Publisher {
	case "channel":
		logger.Info("Creating in-process event publisher", "topic", c.Topic)

		return events.NewChannelEventPublisher(events.PublisherConfig{
			Topic:      c.Topic,
			BufferSize: c.BufferSize,
			Logger:     logger,
		}), nil
	case "mock":
		logger.Info("Using mock event publisher")
		return events.NewMockEventPublisher(logger), nil
	default:
		logger.Warn("Unknown event publisher type, falling back to mock", "publisher", c.Publisher)
		return events.NewMockEventPublisher(logger), nil
	}
}
