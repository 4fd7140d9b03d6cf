package services

import (
	"context"

	"teamchat/internal/domain"
	"teamchat/internal/events"
	"teamchat/pkg/logger"

	"go.uber.org/zap"
)

// notifier wraps events.Notifier so that delivery failures are logged and
// never fail the operation that already committed.
type notifier struct {
	target events.Notifier
	logger *logger.Logger
}

func newNotifier(target events.Notifier, l *logger.Logger) notifier {
	if target == nil {
		target = events.NopNotifier{}
	}
	if l == nil {
		l = logger.NewNop()
	}
	return notifier{target: target, logger: l}
}

func (n notifier) publish(ctx context.Context, eventType, aggregateType, aggregateID string, workspaceID domain.WorkspaceID, actor domain.UserID, payload any) {
	env, err := events.NewEnvelope(eventType, aggregateType, aggregateID, workspaceID.String(), payload)
	if err != nil {
		n.logger.Warn(ctx, "failed to build event", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	if !actor.IsZero() {
		env.ActorID = actor.String()
	}
	if err := n.target.Notify(ctx, env); err != nil {
		n.logger.Warn(ctx, "failed to publish event",
			zap.String("event_type", eventType),
			zap.String("aggregate_id", aggregateID),
			zap.Error(err))
	}
}
