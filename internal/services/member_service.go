package services

import (
	"context"
	"errors"

	"teamchat/internal/domain"
	"teamchat/internal/domain/member"
	"teamchat/internal/events"
	"teamchat/internal/proxy"
	"teamchat/internal/repository"
	teamchat_errors "teamchat/pkg/errors"
	"teamchat/pkg/logger"
)

type MemberService struct {
	store    repository.Store
	notifier notifier
}

func NewMemberService(store repository.Store, n events.Notifier, l *logger.Logger) *MemberService {
	return &MemberService{store: store, notifier: newNotifier(n, l)}
}

// List returns the workspace's members joined with their user profiles.
// Non-members get an empty list; members whose user is gone are skipped.
func (s *MemberService) List(ctx context.Context, caller domain.UserID, workspaceID domain.WorkspaceID) ([]member.WithUser, error) {
	out := make([]member.WithUser, 0)
	current, err := proxy.NewAccessControl(s.store.Members()).CurrentMember(ctx, workspaceID, caller)
	if err != nil || current == nil {
		return out, err
	}
	members, err := s.store.Members().ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		u, err := s.store.Users().GetUserByID(ctx, m.UserID)
		if errors.Is(err, teamchat_errors.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, member.WithUser{Member: m, User: u})
	}
	return out, nil
}

// Get returns the member with its profile, visible only to fellow members.
func (s *MemberService) Get(ctx context.Context, caller domain.UserID, id domain.MemberID) (*member.WithUser, error) {
	if caller.IsZero() {
		return nil, nil
	}
	m, err := s.store.Members().GetByID(ctx, id)
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
	u, err := s.store.Users().GetUserByID(ctx, m.UserID)
	if errors.Is(err, teamchat_errors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member.WithUser{Member: m, User: u}, nil
}

func (s *MemberService) Current(ctx context.Context, caller domain.UserID, workspaceID domain.WorkspaceID) (*member.Member, error) {
	return proxy.NewAccessControl(s.store.Members()).CurrentMember(ctx, workspaceID, caller)
}

func (s *MemberService) UpdateRole(ctx context.Context, caller domain.UserID, id domain.MemberID, role member.Role) (domain.MemberID, error) {
	if !role.Valid() {
		return domain.MemberID{}, teamchat_errors.ErrInvalidInput
	}
	if caller.IsZero() {
		return domain.MemberID{}, teamchat_errors.ErrUnauthorized
	}
	var workspaceID domain.WorkspaceID
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		target, err := tx.Members().GetByID(ctx, id)
		if err != nil {
			return err
		}
		workspaceID = target.WorkspaceID
		if _, err := proxy.NewAccessControl(tx.Members()).RequireAdmin(ctx, target.WorkspaceID, caller); err != nil {
			return err
		}
		return tx.Members().UpdateRole(ctx, id, role)
	})
	if err != nil {
		return domain.MemberID{}, err
	}
	s.notifier.publish(ctx, events.EventTypeMemberRoleChanged, events.AggregateMember, id.String(), workspaceID, caller,
		map[string]string{"role": string(role)})
	return id, nil
}

// Remove deletes a member with every message and reaction they authored and
// every conversation they take part in. Admin records cannot be removed.
// The checks and the cascade share one transaction so nothing the member
// writes concurrently outlives them.
func (s *MemberService) Remove(ctx context.Context, caller domain.UserID, id domain.MemberID) (domain.MemberID, error) {
	if caller.IsZero() {
		return domain.MemberID{}, teamchat_errors.ErrUnauthorized
	}
	var workspaceID domain.WorkspaceID
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		target, err := tx.Members().GetByID(ctx, id)
		if err != nil {
			return err
		}
		current, err := proxy.NewAccessControl(tx.Members()).RequireMember(ctx, target.WorkspaceID, caller)
		if err != nil {
			return err
		}
		if current.ID == target.ID && current.IsAdmin() {
			return teamchat_errors.ErrSelfAdminRemoval
		}
		if target.IsAdmin() {
			return teamchat_errors.ErrAdminRemoval
		}
		workspaceID = target.WorkspaceID

		if err := tx.Messages().DeleteByMember(ctx, target.ID); err != nil {
			return err
		}
		if err := tx.Reactions().DeleteByMember(ctx, target.ID); err != nil {
			return err
		}
		if err := tx.Conversations().DeleteByMember(ctx, target.ID); err != nil {
			return err
		}
		return tx.Members().Delete(ctx, target.ID)
	})
	if err != nil {
		return domain.MemberID{}, err
	}
	s.notifier.publish(ctx, events.EventTypeMemberRemoved, events.AggregateMember, id.String(), workspaceID, caller, nil)
	return id, nil
}
