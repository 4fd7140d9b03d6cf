package services

import (
	"context"
	"errors"
	"strings"

	"teamchat/internal/domain"
	"teamchat/internal/domain/channel"
	"teamchat/internal/domain/member"
	"teamchat/internal/domain/workspace"
	"teamchat/internal/events"
	"teamchat/internal/proxy"
	"teamchat/internal/repository"
	teamchat_errors "teamchat/pkg/errors"
	"teamchat/pkg/logger"
)

type WorkspaceService struct {
	store    repository.Store
	notifier notifier
	joinCode func() string
}

func NewWorkspaceService(store repository.Store, n events.Notifier, l *logger.Logger) *WorkspaceService {
	return &WorkspaceService{
		store:    store,
		notifier: newNotifier(n, l),
		joinCode: workspace.GenerateJoinCode,
	}
}

// WorkspaceInfo is the public preview shown on an invite link.
type WorkspaceInfo struct {
	Name     string
	IsMember bool
}

// Create inserts the workspace, makes the caller its admin and opens the
// default channel, all in one transaction.
func (s *WorkspaceService) Create(ctx context.Context, caller domain.UserID, name string) (domain.WorkspaceID, error) {
	if caller.IsZero() {
		return domain.WorkspaceID{}, teamchat_errors.ErrUnauthorized
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.WorkspaceID{}, teamchat_errors.ErrInvalidInput
	}

	ws := workspace.Workspace{
		ID:        domain.New[domain.WorkspaceID](),
		Name:      name,
		UserID:    caller,
		JoinCode:  s.joinCode(),
		CreatedAt: domain.Now(),
	}
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Workspaces().Create(ctx, &ws); err != nil {
			return err
		}
		if err := tx.Members().Create(ctx, &member.Member{
			ID:          domain.New[domain.MemberID](),
			UserID:      caller,
			WorkspaceID: ws.ID,
			Role:        member.RoleAdmin,
			CreatedAt:   domain.Now(),
		}); err != nil {
			return err
		}
		return tx.Channels().Create(ctx, &channel.Channel{
			ID:          domain.New[domain.ChannelID](),
			Name:        workspace.DefaultChannelName,
			WorkspaceID: ws.ID,
			CreatedAt:   domain.Now(),
		})
	})
	if err != nil {
		return domain.WorkspaceID{}, err
	}

	s.notifier.publish(ctx, events.EventTypeWorkspaceCreated, events.AggregateWorkspace, ws.ID.String(), ws.ID, caller, nil)
	return ws.ID, nil
}

// List returns every workspace the caller belongs to. Anonymous callers get
// an empty list; memberships pointing at deleted workspaces are skipped.
func (s *WorkspaceService) List(ctx context.Context, caller domain.UserID) ([]workspace.Workspace, error) {
	out := make([]workspace.Workspace, 0)
	if caller.IsZero() {
		return out, nil
	}
	members, err := s.store.Members().ListByUser(ctx, caller)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		ws, err := s.store.Workspaces().GetByID(ctx, m.WorkspaceID)
		if errors.Is(err, teamchat_errors.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, ws)
	}
	return out, nil
}

// Get returns nil unless the caller is a member of an existing workspace.
func (s *WorkspaceService) Get(ctx context.Context, caller domain.UserID, id domain.WorkspaceID) (*workspace.Workspace, error) {
	current, err := proxy.NewAccessControl(s.store.Members()).CurrentMember(ctx, id, caller)
	if err != nil || current == nil {
		return nil, err
	}
	ws, err := s.store.Workspaces().GetByID(ctx, id)
	if errors.Is(err, teamchat_errors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// GetInfo returns the workspace name and whether the caller already belongs
// to it. Anonymous callers get nil.
func (s *WorkspaceService) GetInfo(ctx context.Context, caller domain.UserID, id domain.WorkspaceID) (*WorkspaceInfo, error) {
	if caller.IsZero() {
		return nil, nil
	}
	ws, err := s.store.Workspaces().GetByID(ctx, id)
	if errors.Is(err, teamchat_errors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	current, err := proxy.NewAccessControl(s.store.Members()).CurrentMember(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	return &WorkspaceInfo{Name: ws.Name, IsMember: current != nil}, nil
}

func (s *WorkspaceService) Update(ctx context.Context, caller domain.UserID, id domain.WorkspaceID, name string) (domain.WorkspaceID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.WorkspaceID{}, teamchat_errors.ErrInvalidInput
	}
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := proxy.NewAccessControl(tx.Members()).RequireAdmin(ctx, id, caller); err != nil {
			return err
		}
		return tx.Workspaces().UpdateName(ctx, id, name)
	})
	if err != nil {
		return domain.WorkspaceID{}, err
	}
	s.notifier.publish(ctx, events.EventTypeWorkspaceUpdated, events.AggregateWorkspace, id.String(), id, caller,
		map[string]string{"name": name})
	return id, nil
}

// Remove deletes the workspace and its memberships. Channels, conversations,
// messages and reactions are left in place and become unreachable.
func (s *WorkspaceService) Remove(ctx context.Context, caller domain.UserID, id domain.WorkspaceID) (domain.WorkspaceID, error) {
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := proxy.NewAccessControl(tx.Members()).RequireAdmin(ctx, id, caller); err != nil {
			return err
		}
		members, err := tx.Members().ListByWorkspace(ctx, id)
		if err != nil {
			return err
		}
		for _, m := range members {
			if err := tx.Members().Delete(ctx, m.ID); err != nil && !errors.Is(err, teamchat_errors.ErrNotFound) {
				return err
			}
		}
		return tx.Workspaces().Delete(ctx, id)
	})
	if err != nil {
		return domain.WorkspaceID{}, err
	}
	s.notifier.publish(ctx, events.EventTypeWorkspaceRemoved, events.AggregateWorkspace, id.String(), id, caller, nil)
	return id, nil
}

func (s *WorkspaceService) NewJoinCode(ctx context.Context, caller domain.UserID, id domain.WorkspaceID) (domain.WorkspaceID, error) {
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := proxy.NewAccessControl(tx.Members()).RequireAdmin(ctx, id, caller); err != nil {
			return err
		}
		return tx.Workspaces().UpdateJoinCode(ctx, id, s.joinCode())
	})
	if err != nil {
		return domain.WorkspaceID{}, err
	}
	s.notifier.publish(ctx, events.EventTypeWorkspaceJoinCodeReset, events.AggregateWorkspace, id.String(), id, caller, nil)
	return id, nil
}

// Join adds the caller as a plain member when code matches exactly.
func (s *WorkspaceService) Join(ctx context.Context, caller domain.UserID, id domain.WorkspaceID, code string) (domain.WorkspaceID, error) {
	if caller.IsZero() {
		return domain.WorkspaceID{}, teamchat_errors.ErrUnauthorized
	}
	var joined member.Member
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		ws, err := tx.Workspaces().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if ws.JoinCode != code {
			return teamchat_errors.ErrInvalidJoinCode
		}
		current, err := proxy.NewAccessControl(tx.Members()).CurrentMember(ctx, id, caller)
		if err != nil {
			return err
		}
		if current != nil {
			return teamchat_errors.ErrAlreadyExists
		}
		joined = member.Member{
			ID:          domain.New[domain.MemberID](),
			UserID:      caller,
			WorkspaceID: id,
			Role:        member.RoleMember,
			CreatedAt:   domain.Now(),
		}
		return tx.Members().Create(ctx, &joined)
	})
	if err != nil {
		return domain.WorkspaceID{}, err
	}
	s.notifier.publish(ctx, events.EventTypeMemberJoined, events.AggregateMember, joined.ID.String(), id, caller, nil)
	return id, nil
}
