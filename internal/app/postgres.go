package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/guttosm/irarb/config"

	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
)

const connectTimeout = 5 * time.Second

// sqlOpener is swapped in tests.
var sqlOpener = sql.Open

// InitPostgres opens the catalog database and verifies it answers a ping
// within connectTimeout. cfg.Postgres.URL takes precedence over the
// individual fields. The handle is closed again if the ping fails.
func InitPostgres(cfg config.Config) (*sql.DB, error) {
	dsn := cfg.Postgres.URL
	if dsn == "" {
		dsn = config.PostgresDSN(cfg.Postgres)
	}

	db, err := sqlOpener("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return db, nil
}

// postgresOpener is an indirection used by InitializeApp; overridden in tests to avoid real connections.
var postgresOpener = InitPostgres
