package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"teamchat/config"
	"teamchat/internal/repository"
	"teamchat/internal/services"
	"teamchat/pkg/database"
)

const usage = `
Teamchat - Database CLI Tool

Usage:
  migrate [command] [flags]

Commands:
  up          Create the schema (idempotent)
  status      Show database connection status and row counts
  seed-dev    Seed a development workspace and print bearer tokens
  truncate    Truncate all tables (DANGEROUS)

Flags:
  -workspace string   Workspace name for seed-dev (default "Acme")
  -token-ttl duration Lifetime of the printed tokens (default 24h)

Examples:
  go run ./cmd/migrate up
  go run ./cmd/migrate seed-dev -workspace Acme
  go run ./cmd/migrate status
`

func main() {
	workspaceName := flag.String("workspace", "Acme", "Workspace name for seed-dev")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "Lifetime of the printed tokens")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	ctx := context.Background()

	cfg := config.LoadConfig()
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	defer db.Close()

	switch command {
	case "up":
		runMigrationsUp(ctx, db)
	case "status":
		showStatus(ctx, db)
	case "seed-dev":
		seedCfg := database.DefaultSeedConfig()
		seedCfg.WorkspaceName = *workspaceName
		seedCfg.TokenTTL = *tokenTTL
		runSeedDevelopment(ctx, db, services.NewAuthService(cfg), seedCfg)
	case "truncate":
		runTruncate(ctx, db)
	default:
		log.Printf("Unknown command: %s", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp(ctx context.Context, db *sql.DB) {
	log.Println("🚀 Creating schema...")

	if err := repository.InitSchema(ctx, db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	log.Println("✅ Schema is up to date!")
}

func showStatus(ctx context.Context, db *sql.DB) {
	log.Println("🔍 Checking database status...")

	if err := database.HealthCheck(ctx, db); err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	log.Println("✅ Database connection: OK")

	counts, err := repository.TableCounts(ctx, db)
	if err != nil {
		log.Fatalf("❌ Could not read tables: %v", err)
	}
	for _, table := range repository.Tables {
		log.Printf("✅ Table %-15s %d rows", table, counts[table])
	}
}

func runSeedDevelopment(ctx context.Context, db *sql.DB, issuer database.TokenIssuer, cfg *database.SeedConfig) {
	log.Println("🌱 Seeding database (development mode)...")

	if err := repository.InitSchema(ctx, db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	result, err := database.Seed(ctx, repository.NewPostgresStore(db), issuer, cfg)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("📊 Seed Summary:")
	log.Printf("   - Workspace: %s (ID: %s)", cfg.WorkspaceName, result.WorkspaceID)
	log.Printf("   - Channel: general (ID: %s)", result.ChannelID)
	log.Printf("   - Messages: %d", result.Messages)
	for _, u := range result.Users {
		log.Printf("   - %s: %s", u.User.DisplayName(), u.Token)
	}
	log.Println("✅ Development seeding completed!")
}

func runTruncate(ctx context.Context, db *sql.DB) {
	log.Println("⚠️  WARNING: This will TRUNCATE all tables!")

	if err := repository.TruncateAll(ctx, db); err != nil {
		log.Fatalf("❌ Truncate failed: %v", err)
	}

	log.Println("✅ All tables truncated!")
}
