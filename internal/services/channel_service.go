package services

import (
	"context"
	"errors"

	"teamchat/internal/domain"
	"teamchat/internal/domain/channel"
	"teamchat/internal/events"
	"teamchat/internal/proxy"
	"teamchat/internal/repository"
	teamchat_errors "teamchat/pkg/errors"
	"teamchat/pkg/logger"
)

type ChannelService struct {
	store    repository.Store
	notifier notifier
}

func NewChannelService(store repository.Store, n events.Notifier, l *logger.Logger) *ChannelService {
	return &ChannelService{store: store, notifier: newNotifier(n, l)}
}

func normalizeChannelName(name string) (string, error) {
	normalized := channel.NormalizeName(name)
	if normalized == "" {
		return "", teamchat_errors.ErrInvalidInput
	}
	return normalized, nil
}

func (s *ChannelService) Create(ctx context.Context, caller domain.UserID, workspaceID domain.WorkspaceID, name string) (domain.ChannelID, error) {
	normalized, err := normalizeChannelName(name)
	if err != nil {
		return domain.ChannelID{}, err
	}
	ch := channel.Channel{
		ID:          domain.New[domain.ChannelID](),
		Name:        normalized,
		WorkspaceID: workspaceID,
		CreatedAt:   domain.Now(),
	}
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := proxy.NewAccessControl(tx.Members()).RequireAdmin(ctx, workspaceID, caller); err != nil {
			return err
		}
		return tx.Channels().Create(ctx, &ch)
	})
	if err != nil {
		return domain.ChannelID{}, err
	}
	s.notifier.publish(ctx, events.EventTypeChannelCreated, events.AggregateChannel, ch.ID.String(), workspaceID, caller,
		map[string]string{"name": ch.Name})
	return ch.ID, nil
}

// List returns the workspace's channels, or an empty list for non-members.
func (s *ChannelService) List(ctx context.Context, caller domain.UserID, workspaceID domain.WorkspaceID) ([]channel.Channel, error) {
	current, err := proxy.NewAccessControl(s.store.Members()).CurrentMember(ctx, workspaceID, caller)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return []channel.Channel{}, nil
	}
	return s.store.Channels().ListByWorkspace(ctx, workspaceID)
}

// Get returns nil when the channel is missing or the caller is not a member
// of its workspace.
func (s *ChannelService) Get(ctx context.Context, caller domain.UserID, id domain.ChannelID) (*channel.Channel, error) {
	if caller.IsZero() {
		return nil, nil
	}
	ch, err := s.store.Channels().GetByID(ctx, id)
	if errors.Is(err, teamchat_errors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	current, err := proxy.NewAccessControl(s.store.Members()).CurrentMember(ctx, ch.WorkspaceID, caller)
	if err != nil || current == nil {
		return nil, err
	}
	return &ch, nil
}

func (s *ChannelService) Update(ctx context.Context, caller domain.UserID, id domain.ChannelID, name string) (domain.ChannelID, error) {
	normalized, err := normalizeChannelName(name)
	if err != nil {
		return domain.ChannelID{}, err
	}
	var workspaceID domain.WorkspaceID
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		ch, err := tx.Channels().GetByID(ctx, id)
		if err != nil {
			return err
		}
		workspaceID = ch.WorkspaceID
		if _, err := proxy.NewAccessControl(tx.Members()).RequireAdmin(ctx, ch.WorkspaceID, caller); err != nil {
			return err
		}
		return tx.Channels().UpdateName(ctx, id, normalized)
	})
	if err != nil {
		return domain.ChannelID{}, err
	}
	s.notifier.publish(ctx, events.EventTypeChannelUpdated, events.AggregateChannel, id.String(), workspaceID, caller,
		map[string]string{"name": normalized})
	return id, nil
}

// Remove deletes the channel together with its messages, their replies and
// the reactions on all of them.
func (s *ChannelService) Remove(ctx context.Context, caller domain.UserID, id domain.ChannelID) (domain.ChannelID, error) {
	var workspaceID domain.WorkspaceID
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		ch, err := tx.Channels().GetByID(ctx, id)
		if err != nil {
			return err
		}
		workspaceID = ch.WorkspaceID
		if _, err := proxy.NewAccessControl(tx.Members()).RequireAdmin(ctx, ch.WorkspaceID, caller); err != nil {
			return err
		}
		messages, err := tx.Messages().ListByChannel(ctx, id)
		if err != nil {
			return err
		}
		for _, m := range messages {
			if err := tx.Reactions().DeleteByMessage(ctx, m.ID); err != nil {
				return err
			}
			if err := tx.Messages().Delete(ctx, m.ID); err != nil && !errors.Is(err, teamchat_errors.ErrNotFound) {
				return err
			}
		}
		return tx.Channels().Delete(ctx, id)
	})
	if err != nil {
		return domain.ChannelID{}, err
	}
	s.notifier.publish(ctx, events.EventTypeChannelRemoved, events.AggregateChannel, id.String(), workspaceID, caller, nil)
	return id, nil
}
