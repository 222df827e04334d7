package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier enqueues notifications inside the caller's transaction so they
// are published only if the transition commits.
type Notifier interface {
	Notify(ctx context.Context, tx *sql.Tx, t Transition) error
}

type outboxNotifier struct {
	router *Router
	outbox kafka.OutboxRepository
	topic  string
	now    func() time.Time
	logger *zap.Logger
}

func NewOutboxNotifier(router *Router, outbox kafka.OutboxRepository, topic string, logger ...*zap.Logger) Notifier {
	l := zap.L().Named("notification.outbox")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.outbox")
	}
	if topic == "" {
		topic = events.LeaveNotificationTopic
	}
	return &outboxNotifier{
		router: router,
		outbox: outbox,
		topic:  topic,
		now:    func() time.Time { return time.Now().UTC() },
		logger: l,
	}
}

func (n *outboxNotifier) Notify(ctx context.Context, tx *sql.Tx, t Transition) error {
	rid := contextutil.GetRequestID(ctx)
	repo := n.outbox.WithTx(tx)

	for _, msg := range n.router.Route(t) {
		event := events.LeaveNotificationEvent{
			EventType:     events.EventType(msg.AggregateType, msg.Status),
			AggregateType: msg.AggregateType,
			AggregateID:   msg.AggregateID,
			Recipient:     msg.Recipient,
			RecipientID:   msg.RecipientID,
			OccurredAt:    n.now(),
			Payload:       msg.Payload,
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}

		if err := repo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: msg.AggregateType,
			AggregateID:   msg.AggregateID,
			EventType:     event.EventType,
			Topic:         n.topic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			n.logger.Error("enqueue notification failed",
				zap.String("request_id", rid),
				zap.String("aggregate_id", msg.AggregateID),
				zap.String("recipient", msg.Recipient),
				zap.Error(err),
			)
			return err
		}

		n.logger.Debug("notification enqueued",
			zap.String("request_id", rid),
			zap.String("event_type", event.EventType),
			zap.String("recipient", msg.Recipient),
		)
	}
	return nil
}

type noopNotifier struct{}

// NewNoopNotifier discards every notification.
func NewNoopNotifier() Notifier { return noopNotifier{} }

func (noopNotifier) Notify(context.Context, *sql.Tx, Transition) error { return nil }
