package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	teamchat_errors "teamchat/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// mapWriteError folds driver errors into the shared sentinels.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return teamchat_errors.ErrAlreadyExists
	}
	return err
}

func mapReadError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return teamchat_errors.ErrNotFound
	}
	return err
}

func execBuilder(ctx context.Context, db DBTX, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return db.ExecContext(ctx, query, args...)
}

// execAffectingOne runs b and reports ErrNotFound when no row matched.
func execAffectingOne(ctx context.Context, db DBTX, b sq.Sqlizer) error {
	res, err := execBuilder(ctx, db, b)
	if err != nil {
		return mapWriteError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return teamchat_errors.ErrNotFound
	}
	return nil
}

func queryRow(ctx context.Context, db DBTX, b sq.Sqlizer) (*sql.Row, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return db.QueryRowContext(ctx, query, args...), nil
}

func queryAll[T any](ctx context.Context, db DBTX, b sq.Sqlizer, scan func(rowScanner) (T, error)) ([]T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func queryOne[T any](ctx context.Context, db DBTX, b sq.Sqlizer, scan func(rowScanner) (T, error)) (T, error) {
	row, err := queryRow(ctx, db, b)
	if err != nil {
		var zero T
		return zero, err
	}
	item, err := scan(row)
	if err != nil {
		var zero T
		return zero, mapReadError(err)
	}
	return item, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}

// serializationRetries bounds how often a transaction is replayed after
// Postgres aborts it with a serialization failure.
const serializationRetries = 3

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// WithTx executes fn inside a SERIALIZABLE transaction when db is *sql.DB,
// replaying it on serialization failures, so fn must be safe to re-run.
// If db is already a *sql.Tx, fn is executed directly.
func WithTx(ctx context.Context, db DBTX, fn func(DBTX) error) error {
	if db == nil {
		return errors.New("database not initialized")
	}
	if tx, ok := db.(*sql.Tx); ok {
		return fn(tx)
	}
	sqlDB, ok := db.(*sql.DB)
	if !ok {
		return errors.New("unsupported db type")
	}
	var err error
	for attempt := 0; attempt < serializationRetries; attempt++ {
		err = runTx(ctx, sqlDB, fn)
		if !isSerializationFailure(err) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", teamchat_errors.ErrConflict, err)
}

func runTx(ctx context.Context, db *sql.DB, fn func(DBTX) error) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %w (rollback error: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
