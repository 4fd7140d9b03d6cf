package repository

import (
	"context"
	"fmt"
	"strings"
)

// Tables lists every table owned by the service, children before parents.
var Tables = []string{"reactions", "messages", "conversations", "channels", "members", "workspaces", "users"}

// InitSchema creates enums, tables and indexes. Every statement is idempotent.
// There are no foreign keys: orphaned rows are tolerated and filtered out at
// read time, which keeps partial cascades from failing.
func InitSchema(ctx context.Context, db DBTX) error {
	enums := []string{
		`DO $$ BEGIN
			CREATE TYPE member_role AS ENUM ('admin', 'member');
		EXCEPTION
			WHEN duplicate_object THEN null;
		END $$;`,
	}
	for _, enum := range enums {
		if _, err := db.ExecContext(ctx, enum); err != nil {
			return fmt.Errorf("failed to create enum: %w", err)
		}
	}

	tables := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         uuid PRIMARY KEY,
			name       text,
			email      text,
			image      text,
			created_at timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS workspaces (
			id         uuid PRIMARY KEY,
			name       text NOT NULL,
			user_id    uuid NOT NULL,
			join_code  text NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS members (
			id           uuid PRIMARY KEY,
			user_id      uuid NOT NULL,
			workspace_id uuid NOT NULL,
			role         member_role NOT NULL,
			created_at   timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS channels (
			id           uuid PRIMARY KEY,
			name         text NOT NULL,
			workspace_id uuid NOT NULL,
			created_at   timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id            uuid PRIMARY KEY,
			workspace_id  uuid NOT NULL,
			member_one_id uuid NOT NULL,
			member_two_id uuid NOT NULL,
			created_at    timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id                uuid PRIMARY KEY,
			body              text NOT NULL,
			image             text,
			member_id         uuid NOT NULL,
			workspace_id      uuid NOT NULL,
			channel_id        uuid,
			conversation_id   uuid,
			parent_message_id uuid,
			created_at        timestamptz NOT NULL DEFAULT now(),
			updated_at        timestamptz
		)`,
		`CREATE TABLE IF NOT EXISTS reactions (
			id           uuid PRIMARY KEY,
			workspace_id uuid NOT NULL,
			message_id   uuid NOT NULL,
			member_id    uuid NOT NULL,
			value        text NOT NULL,
			created_at   timestamptz NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range tables {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS workspaces_user_id_idx ON workspaces (user_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS members_workspace_user_idx ON members (workspace_id, user_id)`,
		`CREATE INDEX IF NOT EXISTS members_user_id_idx ON members (user_id)`,
		`CREATE INDEX IF NOT EXISTS channels_workspace_id_idx ON channels (workspace_id)`,
		`CREATE INDEX IF NOT EXISTS conversations_workspace_id_idx ON conversations (workspace_id)`,
		`CREATE INDEX IF NOT EXISTS conversations_member_one_idx ON conversations (member_one_id)`,
		`CREATE INDEX IF NOT EXISTS conversations_member_two_idx ON conversations (member_two_id)`,
		`CREATE INDEX IF NOT EXISTS messages_workspace_id_idx ON messages (workspace_id)`,
		`CREATE INDEX IF NOT EXISTS messages_member_id_idx ON messages (member_id)`,
		`CREATE INDEX IF NOT EXISTS messages_channel_id_idx ON messages (channel_id)`,
		`CREATE INDEX IF NOT EXISTS messages_conversation_id_idx ON messages (conversation_id)`,
		`CREATE INDEX IF NOT EXISTS messages_parent_message_id_idx ON messages (parent_message_id)`,
		`CREATE INDEX IF NOT EXISTS messages_container_page_idx ON messages (channel_id, parent_message_id, conversation_id, created_at DESC, id DESC)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS reactions_message_member_value_idx ON reactions (message_id, member_id, value)`,
		`CREATE INDEX IF NOT EXISTS reactions_member_id_idx ON reactions (member_id)`,
		`CREATE INDEX IF NOT EXISTS reactions_workspace_id_idx ON reactions (workspace_id)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// TableCounts returns the row count of every table that exists.
func TableCounts(ctx context.Context, db DBTX) (map[string]int64, error) {
	counts := make(map[string]int64, len(Tables))
	for _, table := range Tables {
		var exists bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)`,
			table).Scan(&exists)
		if err != nil {
			return nil, err
		}
		if !exists {
			continue
		}
		var n int64
		if err := db.QueryRowContext(ctx, "SELECT count(*) FROM "+table).Scan(&n); err != nil {
			return nil, err
		}
		counts[table] = n
	}
	return counts, nil
}

func TruncateAll(ctx context.Context, db DBTX) error {
	_, err := db.ExecContext(ctx, "TRUNCATE TABLE "+strings.Join(Tables, ", "))
	return err
}
