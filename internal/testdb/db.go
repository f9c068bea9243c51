// Package testdb opens migrated databases for store and service tests.
//
// Open returns a file-backed SQLite database carrying the same tables as
// the PostgreSQL schema, so tests run without external services. When
// FLASHCARDS_TEST_DATABASE_URL is set, OpenPostgres connects to a real
// server and applies the production migrations instead.
package testdb

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/azsonic/10xdevs-flashcards/internal/platform/postgres"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	_ "github.com/mattn/go-sqlite3"    // sqlite3 driver
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds setup queries.
const TestTimeout = 5 * time.Second

// DatabaseURLEnv names the variable enabling PostgreSQL tests.
const DatabaseURLEnv = "FLASHCARDS_TEST_DATABASE_URL"

//go:embed sqlite/*.sql
var sqliteMigrations embed.FS

// Open returns a migrated SQLite database that is removed after the test.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "flashcards.db")
	dsn := fmt.Sprintf("file:%s?_foreign_keys=1&_busy_timeout=5000&_txlock=immediate", path)

	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err, "failed to open sqlite database")
	t.Cleanup(func() { _ = db.Close() })

	fsys, err := fs.Sub(sqliteMigrations, "sqlite")
	require.NoError(t, err)

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	require.NoError(t, err, "failed to create migration provider")

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	_, err = provider.Up(ctx)
	require.NoError(t, err, "failed to apply sqlite schema")

	return db
}

// OpenPostgres connects to the database named by FLASHCARDS_TEST_DATABASE_URL,
// applies migrations and empties the tables. The test is skipped when the
// variable is unset.
func OpenPostgres(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv(DatabaseURLEnv)
	if dbURL == "" {
		t.Skipf("%s not set, skipping PostgreSQL test", DatabaseURLEnv)
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "failed to open %s", MaskDatabaseURL(dbURL))
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "failed to reach %s", MaskDatabaseURL(dbURL))
	require.NoError(t, postgres.Migrate(ctx, db, postgres.MigrateUp, nil))

	_, err = db.ExecContext(ctx,
		"TRUNCATE flashcards, generation_error_logs, generations RESTART IDENTITY CASCADE")
	require.NoError(t, err, "failed to truncate tables")

	return db
}

// WithTx runs fn inside a transaction that is rolled back afterwards.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err, "failed to begin transaction")
	defer func() { _ = tx.Rollback() }()

	fn(t, tx)
}

// MaskDatabaseURL hides the password of a database URL.
func MaskDatabaseURL(dbURL string) string {
	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}
	if parsed.User != nil {
		if pw, ok := parsed.User.Password(); ok && pw != "" {
			return strings.Replace(dbURL, ":"+pw+"@", ":****@", 1)
		}
	}
	return dbURL
}
