package repository

import (
	"context"

	"teamchat/internal/domain"
	"teamchat/internal/domain/message"

	sq "github.com/Masterminds/squirrel"
)

type PostgresReactionRepository struct {
	db DBTX
}

func NewReactionRepository(db DBTX) ReactionRepository {
	return &PostgresReactionRepository{db: db}
}

var reactionColumns = []string{"id", "workspace_id", "message_id", "member_id", "value", "created_at"}

func scanReaction(row rowScanner) (message.Reaction, error) {
	var r message.Reaction
	err := row.Scan(&r.ID, &r.WorkspaceID, &r.MessageID, &r.MemberID, &r.Value, &r.CreatedAt)
	return r, err
}

func (r *PostgresReactionRepository) Create(ctx context.Context, rx *message.Reaction) error {
	_, err := execBuilder(ctx, r.db, psql.Insert("reactions").
		Columns(reactionColumns...).
		Values(rx.ID, rx.WorkspaceID, rx.MessageID, rx.MemberID, rx.Value, rx.CreatedAt))
	return mapWriteError(err)
}

func (r *PostgresReactionRepository) Find(ctx context.Context, messageID domain.MessageID, memberID domain.MemberID, value string) (message.Reaction, error) {
	return queryOne(ctx, r.db,
		psql.Select(reactionColumns...).From("reactions").
			Where(sq.Eq{"message_id": messageID, "member_id": memberID, "value": value}),
		scanReaction)
}

func (r *PostgresReactionRepository) ListByMessage(ctx context.Context, messageID domain.MessageID) ([]message.Reaction, error) {
	return queryAll(ctx, r.db,
		psql.Select(reactionColumns...).From("reactions").
			Where(sq.Eq{"message_id": messageID}).OrderBy("created_at ASC", "id ASC"),
		scanReaction)
}

func (r *PostgresReactionRepository) DeleteByMember(ctx context.Context, memberID domain.MemberID) error {
	_, err := execBuilder(ctx, r.db, psql.Delete("reactions").Where(sq.Eq{"member_id": memberID}))
	return err
}

func (r *PostgresReactionRepository) Delete(ctx context.Context, id domain.ReactionID) error {
	return execAffectingOne(ctx, r.db, psql.Delete("reactions").Where(sq.Eq{"id": id}))
}

func (r *PostgresReactionRepository) DeleteByMessage(ctx context.Context, messageID domain.MessageID) error {
	_, err := execBuilder(ctx, r.db, psql.Delete("reactions").Where(sq.Eq{"message_id": messageID}))
	return err
}
