package repository

import (
	"context"

	"teamchat/internal/domain"
	"teamchat/internal/domain/channel"

	sq "github.com/Masterminds/squirrel"
)

type PostgresChannelRepository struct {
	db DBTX
}

func NewChannelRepository(db DBTX) ChannelRepository {
	return &PostgresChannelRepository{db: db}
}

func scanChannel(row rowScanner) (channel.Channel, error) {
	var c channel.Channel
	err := row.Scan(&c.ID, &c.Name, &c.WorkspaceID, &c.CreatedAt)
	return c, err
}

func (r *PostgresChannelRepository) Create(ctx context.Context, c *channel.Channel) error {
	_, err := execBuilder(ctx, r.db, psql.Insert("channels").
		Columns("id", "name", "workspace_id", "created_at").
		Values(c.ID, c.Name, c.WorkspaceID, c.CreatedAt))
	return mapWriteError(err)
}

func (r *PostgresChannelRepository) GetByID(ctx context.Context, id domain.ChannelID) (channel.Channel, error) {
	return queryOne(ctx, r.db,
		psql.Select("id", "name", "workspace_id", "created_at").From("channels").Where(sq.Eq{"id": id}),
		scanChannel)
}

func (r *PostgresChannelRepository) ListByWorkspace(ctx context.Context, workspaceID domain.WorkspaceID) ([]channel.Channel, error) {
	return queryAll(ctx, r.db,
		psql.Select("id", "name", "workspace_id", "created_at").From("channels").
			Where(sq.Eq{"workspace_id": workspaceID}).OrderBy("created_at ASC", "id ASC"),
		scanChannel)
}

func (r *PostgresChannelRepository) UpdateName(ctx context.Context, id domain.ChannelID, name string) error {
	return execAffectingOne(ctx, r.db, psql.Update("channels").Set("name", name).Where(sq.Eq{"id": id}))
}

func (r *PostgresChannelRepository) Delete(ctx context.Context, id domain.ChannelID) error {
	return execAffectingOne(ctx, r.db, psql.Delete("channels").Where(sq.Eq{"id": id}))
}
