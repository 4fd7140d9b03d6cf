package repository

import (
	"context"

	"teamchat/internal/domain"
	"teamchat/internal/domain/conversation"

	sq "github.com/Masterminds/squirrel"
)

type PostgresConversationRepository struct {
	db DBTX
}

func NewConversationRepository(db DBTX) ConversationRepository {
	return &PostgresConversationRepository{db: db}
}

var conversationColumns = []string{"id", "workspace_id", "member_one_id", "member_two_id", "created_at"}

func scanConversation(row rowScanner) (conversation.Conversation, error) {
	var c conversation.Conversation
	err := row.Scan(&c.ID, &c.WorkspaceID, &c.MemberOneID, &c.MemberTwoID, &c.CreatedAt)
	return c, err
}

func (r *PostgresConversationRepository) Create(ctx context.Context, c *conversation.Conversation) error {
	_, err := execBuilder(ctx, r.db, psql.Insert("conversations").
		Columns(conversationColumns...).
		Values(c.ID, c.WorkspaceID, c.MemberOneID, c.MemberTwoID, c.CreatedAt))
	return mapWriteError(err)
}

func (r *PostgresConversationRepository) GetByID(ctx context.Context, id domain.ConversationID) (conversation.Conversation, error) {
	return queryOne(ctx, r.db,
		psql.Select(conversationColumns...).From("conversations").Where(sq.Eq{"id": id}),
		scanConversation)
}

func (r *PostgresConversationRepository) FindByMembers(ctx context.Context, workspaceID domain.WorkspaceID, memberOne, memberTwo domain.MemberID) (conversation.Conversation, error) {
	return queryOne(ctx, r.db,
		psql.Select(conversationColumns...).From("conversations").
			Where(sq.Eq{"workspace_id": workspaceID, "member_one_id": memberOne, "member_two_id": memberTwo}).
			OrderBy("created_at ASC").Limit(1),
		scanConversation)
}

func (r *PostgresConversationRepository) DeleteByMember(ctx context.Context, memberID domain.MemberID) error {
	_, err := execBuilder(ctx, r.db, psql.Delete("conversations").
		Where(sq.Or{sq.Eq{"member_one_id": memberID}, sq.Eq{"member_two_id": memberID}}))
	return err
}

func (r *PostgresConversationRepository) Delete(ctx context.Context, id domain.ConversationID) error {
	return execAffectingOne(ctx, r.db, psql.Delete("conversations").Where(sq.Eq{"id": id}))
}
