package consumer

import (
	"context"
	"encoding/json"

	"go-leave/internal/events"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumers use.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ProfileInvalidator drops a cached employee profile.
type ProfileInvalidator interface {
	Invalidate(ctx context.Context, id string) error
}

// ConsumeEmployeeLifecycle evicts the cached profile of every employee named
// in the lifecycle topic so the next approval reads fresh department data.
// It returns when ctx is cancelled.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	directory ProfileInvalidator,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.EmployeeChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}
		if _, err := uuid.Parse(event.EmployeeID); err != nil {
			log.Warn("employee lifecycle event without valid employee id, skipping",
				zap.String("event_type", event.EventType),
				zap.String("employee_id", event.EmployeeID),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		// left uncommitted; the group redelivers it after a restart or rebalance
		if err := directory.Invalidate(ctx, event.EmployeeID); err != nil {
			log.Error("invalidate employee profile failed",
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("employee profile cache invalidated",
			zap.String("employee_id", event.EmployeeID),
			zap.String("event_type", event.EventType),
		)
	}
}
