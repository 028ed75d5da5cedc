package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"todolist/internal/config"
	"todolist/internal/models"
	"todolist/pkg/logger"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// EnsureTopic creates the change feed topic with configured partitions (idempotent).
// Call at startup; if it fails (e.g. no broker or topic exists), the app still runs.
func EnsureTopic(ctx context.Context, cfg *config.Config) {
	if !cfg.FeedEnabled() {
		return
	}
	conn, err := kafka.DialContext(ctx, "tcp", cfg.KafkaBrokers[0])
	if err != nil {
		logger.Debug(ctx, "Kafka dial for topic creation failed", "error", err)
		return
	}
	defer conn.Close()
	controller, err := conn.Controller()
	if err != nil {
		logger.Debug(ctx, "Kafka controller lookup failed", "error", err)
		return
	}
	ctrlConn, err := kafka.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		logger.Debug(ctx, "Kafka controller dial failed", "error", err)
		return
	}
	defer ctrlConn.Close()
	err = ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.KafkaTopic,
		NumPartitions:     cfg.KafkaPartitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Debug(ctx, "Kafka create topic failed (topic may already exist)", "error", err)
		return
	}
	logger.Info(ctx, "Kafka topic ensured", "topic", cfg.KafkaTopic, "partitions", cfg.KafkaPartitions)
}

// Publisher writes todo change events to Kafka. A nil *Publisher drops every event.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher returns a publisher for the configured topic, or nil when the feed is disabled.
func NewPublisher(ctx context.Context, cfg *config.Config) *Publisher {
	if !cfg.FeedEnabled() {
		logger.Info(ctx, "Kafka change feed disabled")
		return nil
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	logger.Info(ctx, "Kafka producer initialized", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	return &Publisher{writer: w}
}

// NewEvent builds an event for a write that has already been committed.
func NewEvent(action string, todo models.Todo) *models.TodoEvent {
	return &models.TodoEvent{
		ID:         uuid.NewString(),
		Action:     action,
		Todo:       todo,
		OccurredAt: time.Now().UTC(),
	}
}

// Publish writes one event, keyed by todo id so events for a row stay ordered.
func (p *Publisher) Publish(ctx context.Context, ev *models.TodoEvent) error {
	if p == nil {
		return nil
	}
	msg, err := Encode(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

// Encode turns an event into a Kafka message.
func Encode(ev *models.TodoEvent) (kafka.Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(ev.Todo.ID, 10)),
		Value: payload,
	}, nil
}

// Close flushes pending writes.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
