package repository

import (
	"context"

	"teamchat/internal/domain"
	"teamchat/internal/domain/workspace"

	sq "github.com/Masterminds/squirrel"
)

type PostgresWorkspaceRepository struct {
	db DBTX
}

func NewWorkspaceRepository(db DBTX) WorkspaceRepository {
	return &PostgresWorkspaceRepository{db: db}
}

func scanWorkspace(row rowScanner) (workspace.Workspace, error) {
	var w workspace.Workspace
	err := row.Scan(&w.ID, &w.Name, &w.UserID, &w.JoinCode, &w.CreatedAt)
	return w, err
}

func (r *PostgresWorkspaceRepository) Create(ctx context.Context, w *workspace.Workspace) error {
	_, err := execBuilder(ctx, r.db, psql.Insert("workspaces").
		Columns("id", "name", "user_id", "join_code", "created_at").
		Values(w.ID, w.Name, w.UserID, w.JoinCode, w.CreatedAt))
	return mapWriteError(err)
}

func (r *PostgresWorkspaceRepository) GetByID(ctx context.Context, id domain.WorkspaceID) (workspace.Workspace, error) {
	return queryOne(ctx, r.db,
		psql.Select("id", "name", "user_id", "join_code", "created_at").From("workspaces").Where(sq.Eq{"id": id}),
		scanWorkspace)
}

func (r *PostgresWorkspaceRepository) UpdateName(ctx context.Context, id domain.WorkspaceID, name string) error {
	return execAffectingOne(ctx, r.db, psql.Update("workspaces").Set("name", name).Where(sq.Eq{"id": id}))
}

func (r *PostgresWorkspaceRepository) UpdateJoinCode(ctx context.Context, id domain.WorkspaceID, code string) error {
	return execAffectingOne(ctx, r.db, psql.Update("workspaces").Set("join_code", code).Where(sq.Eq{"id": id}))
}

func (r *PostgresWorkspaceRepository) Delete(ctx context.Context, id domain.WorkspaceID) error {
	return execAffectingOne(ctx, r.db, psql.Delete("workspaces").Where(sq.Eq{"id": id}))
}
