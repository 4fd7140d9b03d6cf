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

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// hydrateConcurrency bounds the per-page fan-out of hydration lookups.
const hydrateConcurrency = 8

type MessageService struct {
	store    repository.Store
	hydrator *Hydrator
	notifier notifier
	logger   *logger.Logger
}

func NewMessageService(store repository.Store, hydrator *Hydrator, n events.Notifier, l *logger.Logger) *MessageService {
	if l == nil {
		l = logger.NewNop()
	}
	return &MessageService{store: store, hydrator: hydrator, notifier: newNotifier(n, l), logger: l}
}

type CreateMessageInput struct {
	Body            string
	Image           *string
	WorkspaceID     domain.WorkspaceID
	ChannelID       *domain.ChannelID
	ConversationID  *domain.ConversationID
	ParentMessageID *domain.MessageID
}

type ListMessagesInput struct {
	ChannelID       *domain.ChannelID
	ConversationID  *domain.ConversationID
	ParentMessageID *domain.MessageID
	Page            repository.PageRequest
}

// Create posts a message into a channel, a conversation or a thread. A reply
// that names neither a channel nor a conversation lands in its parent's
// conversation.
func (s *MessageService) Create(ctx context.Context, caller domain.UserID, in CreateMessageInput) (domain.MessageID, error) {
	if strings.TrimSpace(in.Body) == "" {
		return domain.MessageID{}, teamchat_errors.ErrInvalidInput
	}
	if in.Image != nil && strings.TrimSpace(*in.Image) == "" {
		in.Image = nil
	}

	var msg message.Message
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		author, err := proxy.NewAccessControl(tx.Members()).RequireMember(ctx, in.WorkspaceID, caller)
		if err != nil {
			return err
		}
		conversationID, err := s.resolveContainer(ctx, tx, &in)
		if err != nil {
			return err
		}
		msg = message.Message{
			ID:              domain.New[domain.MessageID](),
			Body:            in.Body,
			Image:           in.Image,
			MemberID:        author.ID,
			WorkspaceID:     in.WorkspaceID,
			ChannelID:       in.ChannelID,
			ConversationID:  conversationID,
			ParentMessageID: in.ParentMessageID,
			CreatedAt:       domain.Now(),
		}
		return tx.Messages().Create(ctx, &msg)
	})
	if err != nil {
		return domain.MessageID{}, err
	}
	s.notifier.publish(ctx, events.EventTypeMessageCreated, events.AggregateMessage, msg.ID.String(), msg.WorkspaceID, caller, containerPayload(msg))
	return msg.ID, nil
}

// resolveContainer checks that every referenced container belongs to the
// workspace and returns the conversation the message belongs to.
func (s *MessageService) resolveContainer(ctx context.Context, tx repository.Store, in *CreateMessageInput) (*domain.ConversationID, error) {
	if in.ChannelID != nil {
		ch, err := tx.Channels().GetByID(ctx, *in.ChannelID)
		if err != nil {
			return nil, err
		}
		if ch.WorkspaceID != in.WorkspaceID {
			return nil, teamchat_errors.ErrNotFound
		}
	}
	if in.ConversationID != nil {
		conv, err := tx.Conversations().GetByID(ctx, *in.ConversationID)
		if err != nil {
			return nil, err
		}
		if conv.WorkspaceID != in.WorkspaceID {
			return nil, teamchat_errors.ErrNotFound
		}
	}
	conversationID := in.ConversationID
	if in.ParentMessageID != nil {
		parent, err := tx.Messages().GetByID(ctx, *in.ParentMessageID)
		if errors.Is(err, teamchat_errors.ErrNotFound) {
			return nil, teamchat_errors.ErrParentNotFound
		}
		if err != nil {
			return nil, err
		}
		if parent.WorkspaceID != in.WorkspaceID {
			return nil, teamchat_errors.ErrParentNotFound
		}
		if in.ChannelID == nil && in.ConversationID == nil {
			conversationID = parent.ConversationID
		}
	}
	return conversationID, nil
}

// List returns one page of a container, newest first. The caller must be a
// member of the container's workspace. Messages whose author is gone are
// dropped without backfilling the page.
func (s *MessageService) List(ctx context.Context, caller domain.UserID, in ListMessagesInput) (repository.Page[HydratedMessage], error) {
	empty := repository.Page[HydratedMessage]{Page: make([]HydratedMessage, 0), IsDone: true, ContinueCursor: in.Page.Cursor}
	if caller.IsZero() {
		return empty, teamchat_errors.ErrUnauthorized
	}
	if in.ChannelID == nil && in.ConversationID == nil && in.ParentMessageID == nil {
		return empty, teamchat_errors.ErrInvalidInput
	}

	filter := repository.MessageFilter{
		ChannelID:       in.ChannelID,
		ConversationID:  in.ConversationID,
		ParentMessageID: in.ParentMessageID,
	}
	workspaceID, found, err := s.containerWorkspace(ctx, &filter)
	if err != nil {
		return empty, err
	}
	if !found {
		return empty, nil
	}
	if _, err := proxy.NewAccessControl(s.store.Members()).RequireMember(ctx, workspaceID, caller); err != nil {
		return empty, err
	}

	raw, err := s.store.Messages().ListPage(ctx, filter, in.Page)
	if err != nil {
		return empty, err
	}

	hydrated := make([]*HydratedMessage, len(raw.Page))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(hydrateConcurrency)
	for i, m := range raw.Page {
		g.Go(func() error {
			h, ok, err := s.hydrator.Hydrate(gctx, m, true)
			if err != nil {
				s.logger.Warn(gctx, "dropping message that failed to hydrate", zap.String("message_id", m.ID.String()), zap.Error(err))
				return nil
			}
			if ok {
				hydrated[i] = &h
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return empty, err
	}

	kept := repository.Page[*HydratedMessage]{Page: hydrated, IsDone: raw.IsDone, ContinueCursor: raw.ContinueCursor}
	return repository.MapPage(kept, func(h *HydratedMessage) (HydratedMessage, bool) {
		if h == nil {
			return HydratedMessage{}, false
		}
		return *h, true
	}), nil
}

// containerWorkspace finds the workspace owning the listed container. A
// thread listing without a channel or conversation inherits the parent's
// conversation into the filter.
func (s *MessageService) containerWorkspace(ctx context.Context, filter *repository.MessageFilter) (domain.WorkspaceID, bool, error) {
	var workspaceID domain.WorkspaceID
	if filter.ParentMessageID != nil {
		parent, err := s.store.Messages().GetByID(ctx, *filter.ParentMessageID)
		if err != nil {
			return notFoundAsAbsent(workspaceID, err)
		}
		if filter.ChannelID == nil && filter.ConversationID == nil {
			filter.ConversationID = parent.ConversationID
		}
		workspaceID = parent.WorkspaceID
	}
	if filter.ChannelID != nil {
		ch, err := s.store.Channels().GetByID(ctx, *filter.ChannelID)
		if err != nil {
			return notFoundAsAbsent(workspaceID, err)
		}
		if !workspaceID.IsZero() && ch.WorkspaceID != workspaceID {
			return workspaceID, false, nil
		}
		workspaceID = ch.WorkspaceID
	}
	if filter.ConversationID != nil {
		conv, err := s.store.Conversations().GetByID(ctx, *filter.ConversationID)
		if err != nil {
			return notFoundAsAbsent(workspaceID, err)
		}
		if !workspaceID.IsZero() && conv.WorkspaceID != workspaceID {
			return workspaceID, false, nil
		}
		workspaceID = conv.WorkspaceID
	}
	return workspaceID, true, nil
}

func notFoundAsAbsent(id domain.WorkspaceID, err error) (domain.WorkspaceID, bool, error) {
	if errors.Is(err, teamchat_errors.ErrNotFound) {
		return id, false, nil
	}
	return id, false, err
}

// Get returns the hydrated message without its thread summary, or nil when
// the message, its author or the caller's membership is missing.
func (s *MessageService) Get(ctx context.Context, caller domain.UserID, id domain.MessageID) (*HydratedMessage, error) {
	if caller.IsZero() {
		return nil, nil
	}
	m, err := s.store.Messages().GetByID(ctx, id)
	if errors.Is(err, teamchat_errors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	current, err := proxy.NewAccessControl(s.store.Members()).CurrentMember(ctx, m.WorkspaceID, caller)
	if err != nil || current == nil {
		return nil, err
	}
	h, ok, err := s.hydrator.Hydrate(ctx, m, false)
	if err != nil || !ok {
		return nil, err
	}
	return &h, nil
}

func (s *MessageService) Update(ctx context.Context, caller domain.UserID, id domain.MessageID, body string) (domain.MessageID, error) {
	if strings.TrimSpace(body) == "" {
		return domain.MessageID{}, teamchat_errors.ErrInvalidInput
	}
	if caller.IsZero() {
		return domain.MessageID{}, teamchat_errors.ErrUnauthorized
	}
	var msg message.Message
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		msg, err = tx.Messages().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := proxy.NewAccessControl(tx.Members()).RequireAuthor(ctx, msg.WorkspaceID, caller, msg.MemberID); err != nil {
			return err
		}
		msg.Body = body
		msg.UpdatedAt = domain.NowPtr()
		return tx.Messages().UpdateBody(ctx, msg)
	})
	if err != nil {
		return domain.MessageID{}, err
	}
	s.notifier.publish(ctx, events.EventTypeMessageUpdated, events.AggregateMessage, id.String(), msg.WorkspaceID, caller, containerPayload(msg))
	return id, nil
}

func (s *MessageService) Remove(ctx context.Context, caller domain.UserID, id domain.MessageID) (domain.MessageID, error) {
	if caller.IsZero() {
		return domain.MessageID{}, teamchat_errors.ErrUnauthorized
	}
	var msg message.Message
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		msg, err = tx.Messages().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := proxy.NewAccessControl(tx.Members()).RequireAuthor(ctx, msg.WorkspaceID, caller, msg.MemberID); err != nil {
			return err
		}
		return tx.Messages().Delete(ctx, id)
	})
	if err != nil {
		return domain.MessageID{}, err
	}
	s.notifier.publish(ctx, events.EventTypeMessageDeleted, events.AggregateMessage, id.String(), msg.WorkspaceID, caller, containerPayload(msg))
	return id, nil
}

// containerPayload tells subscribers which listing a message event touches.
func containerPayload(m message.Message) map[string]any {
	return map[string]any{
		"channel_id":        m.ChannelID,
		"conversation_id":   m.ConversationID,
		"parent_message_id": m.ParentMessageID,
	}
}
