package repository

import (
	"context"

	"teamchat/internal/domain"
	"teamchat/internal/domain/member"

	sq "github.com/Masterminds/squirrel"
)

type PostgresMemberRepository struct {
	db DBTX
}

func NewMemberRepository(db DBTX) MemberRepository {
	return &PostgresMemberRepository{db: db}
}

var memberColumns = []string{"id", "user_id", "workspace_id", "role", "created_at"}

func scanMember(row rowScanner) (member.Member, error) {
	var m member.Member
	var role string
	if err := row.Scan(&m.ID, &m.UserID, &m.WorkspaceID, &role, &m.CreatedAt); err != nil {
		return member.Member{}, err
	}
	m.Role = member.Role(role)
	return m, nil
}

func (r *PostgresMemberRepository) Create(ctx context.Context, m *member.Member) error {
	_, err := execBuilder(ctx, r.db, psql.Insert("members").
		Columns(memberColumns...).
		Values(m.ID, m.UserID, m.WorkspaceID, string(m.Role), m.CreatedAt))
	return mapWriteError(err)
}

func (r *PostgresMemberRepository) GetByID(ctx context.Context, id domain.MemberID) (member.Member, error) {
	return queryOne(ctx, r.db, psql.Select(memberColumns...).From("members").Where(sq.Eq{"id": id}), scanMember)
}

func (r *PostgresMemberRepository) GetByWorkspaceAndUser(ctx context.Context, workspaceID domain.WorkspaceID, userID domain.UserID) (member.Member, error) {
	return queryOne(ctx, r.db,
		psql.Select(memberColumns...).From("members").Where(sq.Eq{"workspace_id": workspaceID, "user_id": userID}),
		scanMember)
}

func (r *PostgresMemberRepository) ListByWorkspace(ctx context.Context, workspaceID domain.WorkspaceID) ([]member.Member, error) {
	return queryAll(ctx, r.db,
		psql.Select(memberColumns...).From("members").Where(sq.Eq{"workspace_id": workspaceID}).OrderBy("created_at ASC", "id ASC"),
		scanMember)
}

func (r *PostgresMemberRepository) ListByUser(ctx context.Context, userID domain.UserID) ([]member.Member, error) {
	return queryAll(ctx, r.db,
		psql.Select(memberColumns...).From("members").Where(sq.Eq{"user_id": userID}).OrderBy("created_at ASC", "id ASC"),
		scanMember)
}

func (r *PostgresMemberRepository) UpdateRole(ctx context.Context, id domain.MemberID, role member.Role) error {
	return execAffectingOne(ctx, r.db, psql.Update("members").Set("role", string(role)).Where(sq.Eq{"id": id}))
}

func (r *PostgresMemberRepository) Delete(ctx context.Context, id domain.MemberID) error {
	return execAffectingOne(ctx, r.db, psql.Delete("members").Where(sq.Eq{"id": id}))
}
