package repository

import (
	"context"

	"github.com/usamadar/shopify-publish-channel/internal/domain"
)

// RunRepository is the journal of sync runs and per-product outcomes.
// The pgx implementation is in pg_run_repo.go; the in-memory one in
// memory_run_repo.go is used when no database is configured and in tests.
type RunRepository interface {
	CreateRun(ctx context.Context, run *domain.Run) error
	RecordOutcome(ctx context.Context, o *domain.Outcome) error
	FinishRun(ctx context.Context, runID string, summary domain.RunSummary) error
	GetRun(ctx context.Context, runID string) (*domain.Run, error)
	ListRuns(ctx context.Context, limit int) ([]*domain.Run, error)
	ListOutcomes(ctx context.Context, runID string, failedOnly bool) ([]*domain.Outcome, error)
}
