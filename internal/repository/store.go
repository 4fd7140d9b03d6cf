package repository

import "context"

// PostgresStore is the Store backed by database/sql over pgx.
type PostgresStore struct {
	db DBTX
}

func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Users() UserRepository { return NewUserRepository(s.db) }

func (s *PostgresStore) Workspaces() WorkspaceRepository { return NewWorkspaceRepository(s.db) }

func (s *PostgresStore) Members() MemberRepository { return NewMemberRepository(s.db) }

func (s *PostgresStore) Channels() ChannelRepository { return NewChannelRepository(s.db) }

func (s *PostgresStore) Conversations() ConversationRepository {
	return NewConversationRepository(s.db)
}

func (s *PostgresStore) Messages() MessageRepository { return NewMessageRepository(s.db) }

func (s *PostgresStore) Reactions() ReactionRepository { return NewReactionRepository(s.db) }

func (s *PostgresStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return WithTx(ctx, s.db, func(tx DBTX) error {
		return fn(NewPostgresStore(tx))
	})
}
