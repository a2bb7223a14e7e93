package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/usamadar/shopify-publish-channel/internal/discovery"
	"github.com/usamadar/shopify-publish-channel/internal/domain"
	"github.com/usamadar/shopify-publish-channel/internal/metrics"
	"github.com/usamadar/shopify-publish-channel/internal/queue"
	"github.com/usamadar/shopify-publish-channel/internal/repository"
	"github.com/usamadar/shopify-publish-channel/internal/worker"
)

// Printer is the line-oriented user output of a run.
type Printer interface {
	Info(format string, args ...any)
	Success(format string, args ...any)
	Warning(format string, args ...any)
	Error(format string, args ...any)
	Print(format string, args ...any)
	Progress(format string, args ...any)
}

// PageSource builds the product page fetcher for one sync target.
type PageSource func(target domain.SyncTarget) discovery.PageFetcher

// Options tunes propagation.
type Options struct {
	Workers          int
	ProgressInterval time.Duration
}

// RunOptions are per-invocation switches.
type RunOptions struct {
	// DryRun stops after discovery and lists the products instead of publishing.
	DryRun bool
}

// Report is what a finished (or aborted) run hands back to the CLI.
type Report struct {
	Run        *domain.Run
	ProductIDs []string
	Failed     []string
}

// SyncService runs discovery once, then propagation once per discovered
// product, reporting a running count. Discovery failures abort the run;
// propagation failures are isolated per product.
type SyncService struct {
	repo      repository.RunRepository
	pages     PageSource
	publisher worker.Publisher
	printer   Printer
	metrics   *metrics.Metrics
	logger    *zap.Logger
	opts      Options

	mu       sync.Mutex
	progress worker.Snapshot
	q        *queue.WorkQueue
}

// NewSyncService wires the service. m may be nil.
func NewSyncService(
	repo repository.RunRepository,
	pages PageSource,
	publisher worker.Publisher,
	printer Printer,
	m *metrics.Metrics,
	logger *zap.Logger,
	opts Options,
) *SyncService {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &SyncService{
		repo: repo, pages: pages, publisher: publisher,
		printer: printer, metrics: m, logger: logger, opts: opts,
	}
}

// Snapshot returns the progress of the current (or last) run.
func (s *SyncService) Snapshot() worker.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.progress
	if s.q != nil {
		snap.QueueDepth = s.q.Depth()
	}
	return snap
}

// Run executes one sync. The returned error is non-nil when the run could
// not complete: journal failure, discovery failure or cancellation.
func (s *SyncService) Run(ctx context.Context, target domain.SyncTarget, opts RunOptions) (*Report, error) {
	run := &domain.Run{
		ID:           uuid.New().String(),
		Source:       target.Source,
		Destinations: target.Destinations,
		Status:       domain.RunStatusRunning,
		DryRun:       opts.DryRun,
		StartedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	log := s.logger.With(zap.String("run_id", run.ID))
	log.Info("sync run started",
		zap.String("source", domain.FormatPublicationID(target.Source)),
		zap.Strings("destinations", domain.FormatPublicationIDs(target.Destinations)),
		zap.Int("workers", s.opts.Workers),
		zap.Bool("dry_run", opts.DryRun),
	)

	s.mu.Lock()
	s.progress = worker.Snapshot{RunID: run.ID}
	s.q = nil
	s.mu.Unlock()

	report := &Report{Run: run}

	// ---- discovery ----
	hooks := discovery.Hooks{}
	if s.metrics != nil {
		hooks.OnPage, hooks.OnDiscovered = s.metrics.DiscoveryHooks()
	}
	ids, err := discovery.NewFinder(s.pages(target), log, hooks).Find(ctx)
	if err != nil {
		s.printer.Error("Error publishing products: %v", err)
		s.finish(ctx, run, domain.RunSummary{Status: domain.RunStatusAborted, Error: err.Error()})
		return report, fmt.Errorf("discover products: %w", err)
	}
	report.ProductIDs = ids
	total := len(ids)

	s.mu.Lock()
	s.progress.Total = total
	s.mu.Unlock()

	s.printer.Info("Total products to be updated: %d", total)

	if opts.DryRun {
		for _, id := range ids {
			s.printer.Print("%s", id)
		}
		s.finish(ctx, run, domain.RunSummary{Status: domain.RunStatusCompleted, Discovered: total})
		return report, nil
	}

	// ---- propagation ----
	failed, err := s.propagate(ctx, run, target, ids, log)
	report.Failed = failed
	published := s.Snapshot().Published

	if err != nil {
		s.printer.Error("Run interrupted after %d / %d products", published+len(failed), total)
		s.finish(ctx, run, domain.RunSummary{
			Status: domain.RunStatusAborted, Discovered: total,
			Published: published, Failed: len(failed), Error: err.Error(),
		})
		return report, err
	}

	s.finish(ctx, run, domain.RunSummary{
		Status: domain.RunStatusCompleted, Discovered: total,
		Published: published, Failed: len(failed),
	})

	if len(failed) == 0 {
		s.printer.Success("All eligible products have been successfully published to the new channels.")
	} else {
		s.printer.Warning("%d of %d products could not be published:", len(failed), total)
		for _, id := range failed {
			s.printer.Warning("  %s", id)
		}
	}
	return report, nil
}

func (s *SyncService) propagate(
	ctx context.Context,
	run *domain.Run,
	target domain.SyncTarget,
	ids []string,
	log *zap.Logger,
) ([]string, error) {
	total := len(ids)
	q := queue.New(total)
	for i, id := range ids {
		if err := q.Enqueue(queue.Item{ProductID: id, Position: i + 1}); err != nil {
			return nil, fmt.Errorf("enqueue %s: %w", id, err)
		}
	}
	q.Close()

	s.mu.Lock()
	s.q = q
	s.mu.Unlock()

	var (
		failedMu sync.Mutex
		failed   []failedItem
	)

	hooks := worker.Hooks{
		OnDone: func(res worker.Result) {
			s.recordOutcome(ctx, run.ID, res, log)

			// Progress lines are emitted under the lock so the count is
			// monotonic across workers.
			s.mu.Lock()
			s.progress.Processed++
			if res.Err != nil {
				s.progress.Failed++
				s.printer.Error("Error publishing product with ID %s: %v", res.Item.ProductID, res.Err)
			} else {
				s.progress.Published++
				s.printer.Progress("Published product with ID: %s", res.Item.ProductID)
			}
			s.printer.Progress("Processed %d / %d", s.progress.Processed, total)
			s.mu.Unlock()

			if res.Err != nil {
				failedMu.Lock()
				failed = append(failed, failedItem{position: res.Item.Position, id: res.Item.ProductID})
				failedMu.Unlock()
			}
		},
	}
	if s.metrics != nil {
		hooks.OnPublished, hooks.OnFailed = s.metrics.WorkerHooks()
	}

	reporterCtx, stopReporter := context.WithCancel(ctx)
	defer stopReporter()
	go worker.NewProgressReporter(s.Snapshot, s.opts.ProgressInterval, log).Run(reporterCtx)

	pool := worker.NewPool(s.opts.Workers, q, s.publisher, target.Destinations, log, hooks)
	pool.Start(ctx)
	pool.Wait()

	ids = sortFailed(failed)
	if err := ctx.Err(); err != nil {
		return ids, fmt.Errorf("propagation interrupted: %w", err)
	}
	return ids, nil
}

func (s *SyncService) recordOutcome(ctx context.Context, runID string, res worker.Result, log *zap.Logger) {
	o := &domain.Outcome{
		RunID:       runID,
		ProductID:   res.Item.ProductID,
		Position:    res.Item.Position,
		Published:   res.Err == nil,
		AttemptedAt: time.Now().UTC(),
	}
	if res.Err != nil {
		msg := res.Err.Error()
		o.Error = &msg
	}
	if err := s.repo.RecordOutcome(context.WithoutCancel(ctx), o); err != nil {
		log.Warn("failed to record outcome", zap.String("product_id", o.ProductID), zap.Error(err))
	}
}

// finish writes the run summary. The journal write is not cancelled with
// the run so interrupted runs are still closed out.
func (s *SyncService) finish(ctx context.Context, run *domain.Run, summary domain.RunSummary) {
	summary.FinishedAt = time.Now().UTC()
	if err := s.repo.FinishRun(context.WithoutCancel(ctx), run.ID, summary); err != nil {
		s.logger.Error("failed to finish run", zap.String("run_id", run.ID), zap.Error(err))
	}

	run.Status = summary.Status
	run.Discovered = summary.Discovered
	run.Published = summary.Published
	run.Failed = summary.Failed
	run.FinishedAt = &summary.FinishedAt
	if summary.Error != "" {
		msg := summary.Error
		run.Error = &msg
	}

	fields := []zap.Field{
		zap.String("run_id", run.ID),
		zap.String("status", string(summary.Status)),
		zap.Int("discovered", summary.Discovered),
		zap.Int("published", summary.Published),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", summary.FinishedAt.Sub(run.StartedAt)),
	}
	if summary.Status == domain.RunStatusAborted {
		s.logger.Error("sync run aborted", append(fields, zap.String("error", summary.Error))...)
		return
	}
	s.logger.Info("sync run finished", fields...)
}
