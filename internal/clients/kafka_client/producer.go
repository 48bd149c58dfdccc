package kafka_client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/reviewpulse/internal/models"
)

// Producer publishes analysis events keyed by session id.
type Producer struct {
	producer *kafka.Producer
	topic    string
}

func NewProducer(cfg KafkaConfig) (*Producer, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker),
		slog.String("topic", cfg.Topic))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":                     cfg.Broker,
		"security.protocol":                     "PLAINTEXT",
		"api.version.request":                   "true",
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 1,
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return &Producer{producer: p, topic: cfg.Topic}, nil
}

func (p *Producer) Close() {
	slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
	if remaining := p.producer.Flush(FLUSH_TIMEOUT_MS); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	p.producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}

// PublishAnalysisEvent produces one event and waits for its delivery report.
func (p *Producer) PublishAnalysisEvent(ctx context.Context, event models.AnalysisEvent) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to marshal event: %w", err)
	}

	topic := p.topic
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.SessionID),
		Value:          jsonData,
	}

	deliveryChan := make(chan kafka.Event, 1)
	for i := 0; i < PRODUCE_RETRIES; i++ {
		err = p.producer.Produce(msg, deliveryChan)
		if err == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
	}
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to produce after %d attempts: %w", PRODUCE_RETRIES, err)
	}

	ctx, cancel := context.WithTimeout(ctx, DELIVERY_TIMEOUT)
	defer cancel()

	select {
	case <-ctx.Done():
		return fmt.Errorf("[KafkaClient] delivery report not received: %w", ctx.Err())
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("[KafkaClient] unexpected delivery event %v", e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("[KafkaClient] delivery failed: %w", m.TopicPartition.Error)
		}
	}

	slog.Info("[KafkaClient] Published analysis event",
		slog.String("topic", topic),
		slog.String("session_id", event.SessionID))
	return nil
}
