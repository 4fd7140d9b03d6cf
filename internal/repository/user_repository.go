package repository

import (
	"context"
	"database/sql"

	"teamchat/internal/domain"
	"teamchat/internal/domain/user"

	sq "github.com/Masterminds/squirrel"
)

type PostgresUserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) UserRepository {
	return &PostgresUserRepository{db: db}
}

func scanUser(row rowScanner) (user.User, error) {
	var u user.User
	var name, email, image sql.NullString
	if err := row.Scan(&u.ID, &name, &email, &image, &u.CreatedAt); err != nil {
		return user.User{}, err
	}
	u.Name = stringPtr(name)
	u.Email = stringPtr(email)
	u.Image = stringPtr(image)
	return u, nil
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id domain.UserID) (user.User, error) {
	return queryOne(ctx, r.db,
		psql.Select("id", "name", "email", "image", "created_at").From("users").Where(sq.Eq{"id": id}),
		scanUser)
}

func (r *PostgresUserRepository) Upsert(ctx context.Context, u *user.User) error {
	_, err := execBuilder(ctx, r.db, psql.Insert("users").
		Columns("id", "name", "email", "image", "created_at").
		Values(u.ID, nullString(u.Name), nullString(u.Email), nullString(u.Image), u.CreatedAt).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email, image = EXCLUDED.image"))
	return mapWriteError(err)
}
