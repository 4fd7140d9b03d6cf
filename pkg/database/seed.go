package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"teamchat/internal/domain"
	"teamchat/internal/domain/user"
	"teamchat/internal/repository"
	"teamchat/internal/services"
	"teamchat/pkg/logger"
)

// TokenIssuer mints bearer tokens for seeded users so the API can be driven
// without an identity provider.
type TokenIssuer interface {
	IssueAccessToken(userID domain.UserID, ttl time.Duration) (string, error)
}

// SeedConfig holds configuration for seeding the database
type SeedConfig struct {
	WorkspaceName string
	UserNames     []string
	TokenTTL      time.Duration
}

func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		WorkspaceName: "Acme",
		UserNames:     []string{"Ada", "Grace", "Linus"},
		TokenTTL:      24 * time.Hour,
	}
}

type SeededUser struct {
	User  user.User
	Token string
}

type SeedResult struct {
	Users       []SeededUser
	WorkspaceID domain.WorkspaceID
	ChannelID   domain.ChannelID
	Messages    int
}

// Seed mirrors a few users in, has the first one create a workspace that the
// rest join, and posts a short thread with a reaction into #general. All
// writes go through the services so the data obeys the same rules as the API.
func Seed(ctx context.Context, store repository.Store, issuer TokenIssuer, cfg *SeedConfig) (*SeedResult, error) {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}
	if len(cfg.UserNames) == 0 {
		return nil, fmt.Errorf("seed needs at least one user")
	}

	l := logger.NewNop()
	workspaces := services.NewWorkspaceService(store, nil, l)
	channels := services.NewChannelService(store, nil, l)
	messages := services.NewMessageService(store, services.NewHydrator(store, nil, l), nil, l)
	reactions := services.NewReactionService(store, nil, l)

	log.Println("Starting database seeding...")

	result := &SeedResult{}
	for _, name := range cfg.UserNames {
		seeded, err := seedUser(ctx, store, issuer, name, cfg.TokenTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to seed user %s: %w", name, err)
		}
		result.Users = append(result.Users, seeded)
	}

	owner := result.Users[0].User.ID
	wsID, err := workspaces.Create(ctx, owner, cfg.WorkspaceName)
	if err != nil {
		return nil, fmt.Errorf("failed to seed workspace: %w", err)
	}
	result.WorkspaceID = wsID

	ws, err := workspaces.Get(ctx, owner, wsID)
	if err != nil || ws == nil {
		return nil, fmt.Errorf("failed to read seeded workspace: %w", err)
	}
	for _, u := range result.Users[1:] {
		if _, err := workspaces.Join(ctx, u.User.ID, wsID, ws.JoinCode); err != nil {
			return nil, fmt.Errorf("failed to join %s: %w", u.User.DisplayName(), err)
		}
	}

	chans, err := channels.List(ctx, owner, wsID)
	if err != nil || len(chans) == 0 {
		return nil, fmt.Errorf("failed to find general channel: %w", err)
	}
	result.ChannelID = chans[0].ID

	rootID, err := messages.Create(ctx, owner, services.CreateMessageInput{
		Body:        "Welcome to " + cfg.WorkspaceName + "!",
		WorkspaceID: wsID,
		ChannelID:   &result.ChannelID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed message: %w", err)
	}
	result.Messages++

	for _, u := range result.Users[1:] {
		if _, err := messages.Create(ctx, u.User.ID, services.CreateMessageInput{
			Body:            "Hi from " + u.User.DisplayName(),
			WorkspaceID:     wsID,
			ChannelID:       &result.ChannelID,
			ParentMessageID: &rootID,
		}); err != nil {
			return nil, fmt.Errorf("failed to seed reply: %w", err)
		}
		result.Messages++

		if _, err := reactions.Toggle(ctx, u.User.ID, rootID, "👋"); err != nil {
			return nil, fmt.Errorf("failed to seed reaction: %w", err)
		}
	}

	log.Println("Database seeding completed successfully!")
	return result, nil
}

func seedUser(ctx context.Context, store repository.Store, issuer TokenIssuer, name string, ttl time.Duration) (SeededUser, error) {
	email := fmt.Sprintf("%s@teamchat.dev", name)
	u := user.User{
		ID:        domain.New[domain.UserID](),
		Name:      &name,
		Email:     &email,
		CreatedAt: domain.Now(),
	}
	if err := store.Users().Upsert(ctx, &u); err != nil {
		return SeededUser{}, err
	}
	token, err := issuer.IssueAccessToken(u.ID, ttl)
	if err != nil {
		return SeededUser{}, err
	}
	return SeededUser{User: u, Token: token}, nil
}
