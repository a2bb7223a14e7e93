package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/usamadar/shopify-publish-channel/internal/config"
	"github.com/usamadar/shopify-publish-channel/internal/db"
	"github.com/usamadar/shopify-publish-channel/internal/repository"
)

// openJournal returns the PostgreSQL journal when DATABASE_URL is set,
// applying migrations first, and an in-memory one otherwise.
func openJournal(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.RunRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Debug("DATABASE_URL not set, run journal kept in memory")
		return repository.NewMemoryRunRepository(), func() {}, nil
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrate journal: %w", err)
	}
	logger.Debug("database migrations applied")

	return repository.NewPgRunRepository(pool), pool.Close, nil
}
