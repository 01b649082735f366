package config

import (
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/exam-form-service/internal/events"
)

// EventConfig controls publishing of submission events.
type EventConfig struct {
	Enabled      bool
	Publisher    string // kafka
	KafkaBrokers []string
	Topic        string
}

// CreateEventPublisher returns a discarding publisher while events are
// disabled.
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Info("Submission events disabled")
		return events.NewDiscardPublisher(logger), nil
	}
	if c.Publisher != "kafka" {
		return nil, fmt.Errorf("unknown event publisher %q", c.Publisher)
	}
	if len(c.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("kafka event publisher needs KAFKA_BROKERS")
	}

	logger.Info("Publishing submission events to Kafka", "brokers", c.KafkaBrokers, "topic", c.Topic)
	return events.NewKafkaEventPublisher(events.PublisherConfig{
		KafkaBrokers: c.KafkaBrokers,
		TopicName:    c.Topic,
		Logger:       logger,
	})
}
