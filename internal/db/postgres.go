package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/usamadar/shopify-publish-channel/internal/config"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Connect creates a pgxpool connection pool and verifies connectivity.
func Connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MinConns = cfg.DBMinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// MigrationURL rewrites a postgres connection string into the "pgx5://"
// scheme expected by golang-migrate's pgx/v5 driver.
func MigrationURL(databaseURL string) string {
	var rest string
	switch {
	case strings.HasPrefix(databaseURL, "postgresql://"):
		rest = databaseURL[len("postgresql://"):]
	case strings.HasPrefix(databaseURL, "postgres://"):
		rest = databaseURL[len("postgres://"):]
	default:
		rest = databaseURL
	}
	return "pgx5://" + rest
}

// Migrate runs all pending up-migrations embedded in the binary.
// It is idempotent: already-applied migrations are skipped.
func Migrate(databaseURL string) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, MigrationURL(databaseURL))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
