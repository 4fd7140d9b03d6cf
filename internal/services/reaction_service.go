package services

import (
	"context"
	"errors"
	"strings"

	"teamchat/internal/domain"
	"teamchat/internal/domain/message"
	"teamchat/internal/events"
	"teamchat/internal/proxy"
	"teamchat/internal/repository"
	teamchat_errors "teamchat/pkg/errors"
	"teamchat/pkg/logger"
)

type ReactionService struct {
	store    repository.Store
	notifier notifier
}

func NewReactionService(store repository.Store, n events.Notifier, l *logger.Logger) *ReactionService {
	return &ReactionService{store: store, notifier: newNotifier(n, l)}
}

// Toggle removes the caller's reaction with this value if it exists and
// adds it otherwise. Either way the affected reaction id is returned. The
// value is stored verbatim; only blank values are rejected.
func (s *ReactionService) Toggle(ctx context.Context, caller domain.UserID, messageID domain.MessageID, value string) (domain.ReactionID, error) {
	if strings.TrimSpace(value) == "" {
		return domain.ReactionID{}, teamchat_errors.ErrInvalidInput
	}
	if caller.IsZero() {
		return domain.ReactionID{}, teamchat_errors.ErrUnauthorized
	}

	var (
		affected domain.ReactionID
		removed  bool
		msg      message.Message
	)
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		msg, err = tx.Messages().GetByID(ctx, messageID)
		if err != nil {
			return err
		}
		author, err := proxy.NewAccessControl(tx.Members()).RequireMember(ctx, msg.WorkspaceID, caller)
		if err != nil {
			return err
		}

		existing, err := tx.Reactions().Find(ctx, messageID, author.ID, value)
		switch {
		case err == nil:
			affected, removed = existing.ID, true
			return tx.Reactions().Delete(ctx, existing.ID)
		case !errors.Is(err, teamchat_errors.ErrNotFound):
			return err
		}

		r := message.Reaction{
			ID:          domain.New[domain.ReactionID](),
			WorkspaceID: msg.WorkspaceID,
			MessageID:   messageID,
			MemberID:    author.ID,
			Value:       value,
			CreatedAt:   domain.Now(),
		}
		affected = r.ID
		return tx.Reactions().Create(ctx, &r)
	})
	if err != nil {
		return domain.ReactionID{}, err
	}

	eventType := events.EventTypeReactionAdded
	if removed {
		eventType = events.EventTypeReactionRemoved
	}
	s.notifier.publish(ctx, eventType, events.AggregateReaction, affected.String(), msg.WorkspaceID, caller, map[string]any{
		"message_id": messageID,
		"value":      value,
	})
	return affected, nil
}
