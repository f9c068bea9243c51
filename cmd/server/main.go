// Package main implements the flashcards API server: AI generation of
// flashcard candidates and storage of the cards users accept.
//
// Usage:
//
//	server                  run the HTTP server
//	server -migrate up      apply migrations (also: down, reset, status, version)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/azsonic/10xdevs-flashcards/internal/config"
	"github.com/azsonic/10xdevs-flashcards/internal/platform/logger"
	"github.com/azsonic/10xdevs-flashcards/internal/platform/postgres"
	"github.com/joho/godotenv"
)

func main() {
	migrateCmd := flag.String("migrate", "", "Run a database migration command (up, down, reset, status, version) and exit")
	envFile := flag.String("env-file", ".env", "Optional dotenv file loaded before configuration")
	flag.Parse()

	if err := run(*migrateCmd, *envFile); err != nil {
		log.Fatalf("flashcards server: %v", err)
	}
}

func run(migrateCmd, envFile string) error {
	if err := loadEnvFile(envFile); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	l.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("llm_provider", cfg.LLM.EffectiveProvider()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg, l)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer func() { _ = db.Close() }()
		if !postgres.ValidMigrateCommand(migrateCmd) {
			return fmt.Errorf("unknown migrate command %q", migrateCmd)
		}
		return postgres.Migrate(ctx, db, migrateCmd, l)
	}

	app, err := newApplication(ctx, cfg, l, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

// loadEnvFile loads KEY=value pairs from path into the environment without
// overriding variables already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
