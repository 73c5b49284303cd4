package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/kechcole/Blog-App/internal/common/config"
	"github.com/kechcole/Blog-App/internal/common/logger"
)

// migrate applies the schema. Usage: migrate [up|down|status], default up.
func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "migrate", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.LoadBlogConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database connection: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to configure goose: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch command {
	case "up":
		log.Infof("applying migrations from %s", cfg.MigrationsDir)
		if err := goose.UpContext(ctx, db, cfg.MigrationsDir); err != nil {
			log.Fatalf("failed to apply migrations: %v", err)
		}
		log.Info("migrations applied")
	case "down":
		log.Info("rolling back latest migration")
		if err := goose.DownContext(ctx, db, cfg.MigrationsDir); err != nil {
			log.Fatalf("failed to roll back migration: %v", err)
		}
		log.Info("rollback complete")
	case "status":
		if err := goose.Status(db, cfg.MigrationsDir); err != nil {
			log.Fatalf("failed to report migration status: %v", err)
		}
	default:
		log.Fatalf("unknown command: %s (expected up, down or status)", command)
	}
}
