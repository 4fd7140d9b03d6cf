package services

import (
	"context"
	"errors"

	"teamchat/internal/domain"
	"teamchat/internal/domain/user"
	"teamchat/internal/repository"
	teamchat_errors "teamchat/pkg/errors"
)

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Current returns the caller's profile, or nil for anonymous callers and
// users the identity provider has not mirrored in yet.
func (s *UserService) Current(ctx context.Context, caller domain.UserID) (*user.User, error) {
	if caller.IsZero() {
		return nil, nil
	}
	u, err := s.users.GetUserByID(ctx, caller)
	if errors.Is(err, teamchat_errors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
