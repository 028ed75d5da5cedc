package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"todolist/internal/config"
	"todolist/internal/models"
	"todolist/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// Handler processes one change event.
type Handler func(ctx context.Context, ev models.TodoEvent) error

// Run consumes the change feed until ctx is cancelled, calling handle for every event.
// Consumers sharing groupID split the partitions between them.
func Run(ctx context.Context, cfg *config.Config, groupID string, handle Handler) error {
	if !cfg.FeedEnabled() {
		return fmt.Errorf("change feed disabled: KAFKA_BROKERS is not set")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaTopic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	var processed int64
	logger.Info(ctx, "Kafka consumer started", "topic", cfg.KafkaTopic, "group", groupID)
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info(ctx, "Kafka consumer stopped", "processed", processed)
				return nil
			}
			logger.Error(ctx, "Worker fetch failed", "error", err)
			continue
		}
		if err := handleMessage(ctx, msg.Value, handle); err != nil {
			logger.Error(ctx, "Worker handle failed", "error", err, "payload", string(msg.Value))
			// Commit anyway to avoid poison pill blocking the partition
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			logger.Error(ctx, "Worker commit failed", "error", err)
			continue
		}
		processed++
	}
}

// Decode parses a change feed payload.
func Decode(payload []byte) (models.TodoEvent, error) {
	var ev models.TodoEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return models.TodoEvent{}, fmt.Errorf("decode todo event: %w", err)
	}
	switch ev.Action {
	case models.ActionCreated, models.ActionUpdated, models.ActionDeleted:
	default:
		return models.TodoEvent{}, fmt.Errorf("decode todo event: unknown action %q", ev.Action)
	}
	return ev, nil
}

func handleMessage(ctx context.Context, payload []byte, handle Handler) error {
	ev, err := Decode(payload)
	if err != nil {
		return err
	}
	return handle(ctx, ev)
}
