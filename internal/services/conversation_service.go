package services

import (
	"context"
	"errors"

	"teamchat/internal/domain"
	"teamchat/internal/domain/conversation"
	"teamchat/internal/events"
	"teamchat/internal/proxy"
	"teamchat/internal/repository"
	teamchat_errors "teamchat/pkg/errors"
	"teamchat/pkg/logger"
)

type ConversationService struct {
	store    repository.Store
	notifier notifier
}

func NewConversationService(store repository.Store, n events.Notifier, l *logger.Logger) *ConversationService {
	return &ConversationService{store: store, notifier: newNotifier(n, l)}
}

// CreateOrGet returns the direct conversation between the caller and
// another member, opening one if neither ordering of the pair exists yet.
func (s *ConversationService) CreateOrGet(ctx context.Context, caller domain.UserID, workspaceID domain.WorkspaceID, otherID domain.MemberID) (domain.ConversationID, error) {
	var (
		result  domain.ConversationID
		created bool
	)
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		current, err := proxy.NewAccessControl(tx.Members()).RequireMember(ctx, workspaceID, caller)
		if err != nil {
			return err
		}
		other, err := tx.Members().GetByID(ctx, otherID)
		if err != nil {
			return err
		}
		if other.WorkspaceID != workspaceID {
			return teamchat_errors.ErrNotFound
		}

		for _, pair := range [][2]domain.MemberID{{current.ID, other.ID}, {other.ID, current.ID}} {
			existing, err := tx.Conversations().FindByMembers(ctx, workspaceID, pair[0], pair[1])
			if err == nil {
				result = existing.ID
				return nil
			}
			if !errors.Is(err, teamchat_errors.ErrNotFound) {
				return err
			}
		}

		conv := conversation.Conversation{
			ID:          domain.New[domain.ConversationID](),
			WorkspaceID: workspaceID,
			MemberOneID: current.ID,
			MemberTwoID: other.ID,
			CreatedAt:   domain.Now(),
		}
		if err := tx.Conversations().Create(ctx, &conv); err != nil {
			return err
		}
		result, created = conv.ID, true
		return nil
	})
	if err != nil {
		return domain.ConversationID{}, err
	}
	if created {
		s.notifier.publish(ctx, events.EventTypeConversationCreated, events.AggregateConversation, result.String(), workspaceID, caller,
			map[string]string{"member_two_id": otherID.String()})
	}
	return result, nil
}
