package repository

import (
	"context"
	"database/sql"

	"teamchat/internal/domain"
	"teamchat/internal/domain/message"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type PostgresMessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

var messageColumns = []string{
	"id", "body", "image", "member_id", "workspace_id",
	"channel_id", "conversation_id", "parent_message_id", "created_at", "updated_at",
}

func scanMessage(row rowScanner) (message.Message, error) {
	var m message.Message
	var image sql.NullString
	var channelID, conversationID, parentID uuid.NullUUID
	var updatedAt sql.NullTime
	if err := row.Scan(&m.ID, &m.Body, &image, &m.MemberID, &m.WorkspaceID,
		&channelID, &conversationID, &parentID, &m.CreatedAt, &updatedAt); err != nil {
		return message.Message{}, err
	}
	m.Image = stringPtr(image)
	m.ChannelID = domain.FromNullUUID[domain.ChannelID](channelID)
	m.ConversationID = domain.FromNullUUID[domain.ConversationID](conversationID)
	m.ParentMessageID = domain.FromNullUUID[domain.MessageID](parentID)
	if updatedAt.Valid {
		t := updatedAt.Time
		m.UpdatedAt = &t
	}
	return m, nil
}

func (r *PostgresMessageRepository) selectMessages() sq.SelectBuilder {
	return psql.Select(messageColumns...).From("messages")
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *message.Message) error {
	_, err := execBuilder(ctx, r.db, psql.Insert("messages").
		Columns(messageColumns...).
		Values(m.ID, m.Body, nullString(m.Image), m.MemberID, m.WorkspaceID,
			domain.NullUUID(m.ChannelID), domain.NullUUID(m.ConversationID), domain.NullUUID(m.ParentMessageID),
			m.CreatedAt, m.UpdatedAt))
	return mapWriteError(err)
}

func (r *PostgresMessageRepository) GetByID(ctx context.Context, id domain.MessageID) (message.Message, error) {
	return queryOne(ctx, r.db, r.selectMessages().Where(sq.Eq{"id": id}), scanMessage)
}

func (r *PostgresMessageRepository) UpdateBody(ctx context.Context, m message.Message) error {
	return execAffectingOne(ctx, r.db, psql.Update("messages").
		Set("body", m.Body).
		Set("updated_at", m.UpdatedAt).
		Where(sq.Eq{"id": m.ID}))
}

func (r *PostgresMessageRepository) Delete(ctx context.Context, id domain.MessageID) error {
	return execAffectingOne(ctx, r.db, psql.Delete("messages").Where(sq.Eq{"id": id}))
}

func (r *PostgresMessageRepository) ListPage(ctx context.Context, filter MessageFilter, page PageRequest) (Page[message.Message], error) {
	cursor, err := DecodeCursor(page.Cursor)
	if err != nil {
		return Page[message.Message]{}, err
	}
	limit := page.Limit()

	q := r.selectMessages().
		Where(sq.Expr("channel_id IS NOT DISTINCT FROM ?::uuid", domain.NullUUID(filter.ChannelID))).
		Where(sq.Expr("conversation_id IS NOT DISTINCT FROM ?::uuid", domain.NullUUID(filter.ConversationID))).
		Where(sq.Expr("parent_message_id IS NOT DISTINCT FROM ?::uuid", domain.NullUUID(filter.ParentMessageID)))
	if cursor != nil {
		q = q.Where(sq.Expr("(created_at, id) < (?, ?::uuid)", cursor.CreatedAt, cursor.ID))
	}
	q = q.OrderBy("created_at DESC", "id DESC").Limit(uint64(limit + 1))

	rows, err := queryAll(ctx, r.db, q, scanMessage)
	if err != nil {
		return Page[message.Message]{}, err
	}
	return BuildPage(rows, limit, page.Cursor, MessageCursor), nil
}

func (r *PostgresMessageRepository) ListReplies(ctx context.Context, parentID domain.MessageID) ([]message.Message, error) {
	return queryAll(ctx, r.db,
		r.selectMessages().Where(sq.Eq{"parent_message_id": parentID}).OrderBy("created_at ASC", "id ASC"),
		scanMessage)
}

func (r *PostgresMessageRepository) DeleteByMember(ctx context.Context, memberID domain.MemberID) error {
	_, err := execBuilder(ctx, r.db, psql.Delete("messages").Where(sq.Eq{"member_id": memberID}))
	return err
}

func (r *PostgresMessageRepository) ListByChannel(ctx context.Context, channelID domain.ChannelID) ([]message.Message, error) {
	return queryAll(ctx, r.db,
		r.selectMessages().Where(sq.Eq{"channel_id": channelID}).OrderBy("created_at ASC", "id ASC"),
		scanMessage)
}
