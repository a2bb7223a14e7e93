package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/usamadar/shopify-publish-channel/internal/domain"
)

type pgRunRepository struct {
	pool *pgxpool.Pool
}

// NewPgRunRepository returns a RunRepository backed by PostgreSQL.
func NewPgRunRepository(pool *pgxpool.Pool) RunRepository {
	return &pgRunRepository{pool: pool}
}

const runColumns = `id, source, destinations, status, dry_run, discovered, published,
	failed, error_message, started_at, finished_at`

func (r *pgRunRepository) CreateRun(ctx context.Context, run *domain.Run) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sync_runs (id, source, destinations, status, dry_run, started_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		run.ID, run.Source, run.Destinations, run.Status, run.DryRun, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sync run: %w", err)
	}
	return nil
}

func (r *pgRunRepository) RecordOutcome(ctx context.Context, o *domain.Outcome) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sync_outcomes (run_id, product_id, position, published, error_message, attempted_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		o.RunID, o.ProductID, o.Position, o.Published, o.Error, o.AttemptedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sync outcome: %w", err)
	}
	return nil
}

func (r *pgRunRepository) FinishRun(ctx context.Context, runID string, s domain.RunSummary) error {
	var errMsg *string
	if s.Error != "" {
		errMsg = &s.Error
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE sync_runs
		SET status = $2, discovered = $3, published = $4, failed = $5,
		    error_message = $6, finished_at = $7
		WHERE id = $1`,
		runID, s.Status, s.Discovered, s.Published, s.Failed, errMsg, s.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("finish sync run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetRun returns ErrNotFound for IDs that are not UUIDs, since no row can
// match them and Postgres would reject the cast.
func (r *pgRunRepository) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return nil, domain.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+runColumns+` FROM sync_runs WHERE id = $1`, runID)
	run, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return run, err
}

func (r *pgRunRepository) ListRuns(ctx context.Context, limit int) ([]*domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+runColumns+` FROM sync_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *pgRunRepository) ListOutcomes(ctx context.Context, runID string, failedOnly bool) ([]*domain.Outcome, error) {
	if _, err := r.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT run_id, product_id, position, published, error_message, attempted_at
		FROM sync_outcomes
		WHERE run_id = $1 AND ($2 = false OR published = false)
		ORDER BY position`, runID, failedOnly)
	if err != nil {
		return nil, fmt.Errorf("list sync outcomes: %w", err)
	}
	defer rows.Close()

	var out []*domain.Outcome
	for rows.Next() {
		var o domain.Outcome
		if err := rows.Scan(&o.RunID, &o.ProductID, &o.Position, &o.Published, &o.Error, &o.AttemptedAt); err != nil {
			return nil, fmt.Errorf("scan sync outcome: %w", err)
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}

func scanRun(row pgx.Row) (*domain.Run, error) {
	var run domain.Run
	err := row.Scan(
		&run.ID, &run.Source, &run.Destinations, &run.Status, &run.DryRun,
		&run.Discovered, &run.Published, &run.Failed, &run.Error,
		&run.StartedAt, &run.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan sync run: %w", err)
	}
	return &run, nil
}
