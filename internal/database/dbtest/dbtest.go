// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"

	"todolist/internal/config"
	"todolist/internal/database"
)

// Config returns a configuration pointing at a private in-memory SQLite database.
func Config() *config.Config {
	cfg := config.Default()
	cfg.DatabaseURL = ":memory:"
	return cfg
}

// Open returns a migrated in-memory database that is closed when the test ends.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	ctx := context.Background()
	cfg := Config()
	db, err := database.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.MigrateOrCreateSchema(ctx, db, cfg.DBDriver); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
