package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"
	_ "github.com/lib/pq"
	"todolist/internal/config"
	"todolist/pkg/logger"
)

const pingTimeout = 5 * time.Second

// Open opens the connection pool for the configured driver and checks it is reachable.
func Open(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}
	switch cfg.DBDriver {
	case config.DriverSQLite:
		// SQLite serialises writers anyway; a single connection also keeps ":memory:" databases shared.
		db.SetMaxOpenConns(1)
	default:
		db.SetMaxOpenConns(cfg.DBPoolSize)
		db.SetMaxIdleConns(cfg.DBPoolSize / 2)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", cfg.DBDriver, err)
	}
	logger.Info(ctx, "Database pool initialized", "driver", cfg.DBDriver, "max_open", db.Stats().MaxOpenConnections)
	return db, nil
}

var schemas = map[string]string{
	config.DriverPostgres: `CREATE TABLE IF NOT EXISTS todo (
		id   SERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	config.DriverSQLite: `CREATE TABLE IF NOT EXISTS todo (
		id   INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
}

// MigrateOrCreateSchema creates the todo table if it does not exist yet.
func MigrateOrCreateSchema(ctx context.Context, db *sql.DB, driver string) error {
	ddl, ok := schemas[driver]
	if !ok {
		return fmt.Errorf("no schema for driver %q", driver)
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create todo table: %w", err)
	}
	logger.Debug(ctx, "Schema ensured", "driver", driver)
	return nil
}
