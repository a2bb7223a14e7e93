package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/usamadar/shopify-publish-channel/internal/api"
	"github.com/usamadar/shopify-publish-channel/internal/config"
	"github.com/usamadar/shopify-publish-channel/internal/discovery"
	"github.com/usamadar/shopify-publish-channel/internal/domain"
	"github.com/usamadar/shopify-publish-channel/internal/metrics"
	"github.com/usamadar/shopify-publish-channel/internal/output"
	"github.com/usamadar/shopify-publish-channel/internal/ratelimiter"
	"github.com/usamadar/shopify-publish-channel/internal/service"
	"github.com/usamadar/shopify-publish-channel/internal/shopify"
)

type syncFlags struct {
	dryRun           bool
	failOnError      bool
	quiet            bool
	workers          int
	progressInterval time.Duration
}

func newSyncCmd() *cobra.Command {
	f := &syncFlags{}
	cmd := &cobra.Command{
		Use:   "sync <source-publication-id> <destination-publication-id>...",
		Short: "Publish products live on the source to every destination",
		Long: `Find every product that is published on the source publication but not on
at least one destination publication, then publish each of them to all of
the destinations. Publication IDs may be given bare or in
gid://shopify/Publication/<id> form.

Per-product failures are reported and skipped. The exit code stays 0 unless
discovery fails, the run is interrupted, or --fail-on-error is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, args, f)
		},
	}

	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "list products that need publishing without publishing them")
	cmd.Flags().BoolVar(&f.failOnError, "fail-on-error", false, "exit non-zero if any product failed to publish")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "suppress per-product progress lines")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "concurrent publish workers (overrides PUBLISH_WORKERS)")
	cmd.Flags().DurationVar(&f.progressInterval, "progress-interval", 10*time.Second, "how often to log a progress summary (0 disables)")
	return cmd
}

func runSync(cmd *cobra.Command, args []string, f *syncFlags) error {
	// Credentials are checked before arguments.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	target, err := domain.ParseSyncTarget(args)
	if err != nil {
		return err
	}
	if f.workers > 0 {
		cfg.PublishWorkers = f.workers
	}

	logger := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
	defer logger.Sync() //nolint:errcheck

	printer := output.NewPrinterWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(), !color.NoColor, f.quiet)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openJournal(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	client := shopify.NewClient(shopify.ClientConfig{
		Endpoint:    cfg.Endpoint(),
		AccessToken: cfg.AccessToken,
		Timeout:     cfg.HTTPTimeout,
		Limiter:     ratelimiter.New(cfg.RateLimit),
		OnRequest:   m.RequestHook(),
	})
	pages := func(t domain.SyncTarget) discovery.PageFetcher {
		return shopify.NewProductLister(client, t)
	}

	svc := service.NewSyncService(repo, pages, shopify.NewPublisher(client), printer, m, logger, service.Options{
		Workers:          cfg.PublishWorkers,
		ProgressInterval: f.progressInterval,
	})

	if cfg.MetricsAddr != "" {
		srv := api.NewServer(cfg.MetricsAddr, api.NewRouter(svc.Snapshot, repo, reg, logger), logger)
		if err := srv.Start(); err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
		defer srv.Shutdown(cfg.ShutdownTimeout)
	}

	report, err := svc.Run(ctx, target, service.RunOptions{DryRun: f.dryRun})
	if err != nil {
		if report != nil {
			return &reportedError{err: err}
		}
		return err
	}
	if f.failOnError && len(report.Failed) > 0 {
		return &reportedError{err: fmt.Errorf("%d products failed to publish", len(report.Failed))}
	}
	return nil
}
