package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/usamadar/shopify-publish-channel/internal/config"
	"github.com/usamadar/shopify-publish-channel/internal/domain"
	"github.com/usamadar/shopify-publish-channel/internal/output"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the run journal",
		Long:  `Read past sync runs from the PostgreSQL journal. DATABASE_URL must be set.`,
	}
	cmd.AddCommand(newRunsListCmd(), newRunsShowCmd())
	return cmd
}

func newRunsListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadJournal()
			if err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
			defer logger.Sync() //nolint:errcheck

			repo, closeRepo, err := openJournal(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeRepo()

			runs, err := repo.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			printer := output.NewPrinterWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(), !color.NoColor, false)
			return writeRuns(printer, runs)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to show")
	return cmd
}

func newRunsShowCmd() *cobra.Command {
	var failedOnly bool
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run and its per-product outcomes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadJournal()
			if err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
			defer logger.Sync() //nolint:errcheck

			repo, closeRepo, err := openJournal(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeRepo()

			run, err := repo.GetRun(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("run %s: %w", args[0], err)
			}
			outcomes, err := repo.ListOutcomes(cmd.Context(), run.ID, failedOnly)
			if err != nil {
				return fmt.Errorf("outcomes of run %s: %w", run.ID, err)
			}
			printer := output.NewPrinterWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(), !color.NoColor, false)
			return writeRunDetail(printer, run, outcomes)
		},
	}
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "only show products that failed to publish")
	return cmd
}

func writeRuns(p *output.Printer, runs []*domain.Run) error {
	if len(runs) == 0 {
		p.Info("No runs recorded")
		return nil
	}
	t := output.NewTable(p.Out(), []string{"ID", "STATUS", "SOURCE", "DESTINATIONS", "FOUND", "PUBLISHED", "FAILED", "STARTED", "DURATION"})
	for _, r := range runs {
		t.AddRow(
			r.ID,
			runStatus(r),
			r.Source,
			strings.Join(r.Destinations, ","),
			strconv.Itoa(r.Discovered),
			strconv.Itoa(r.Published),
			strconv.Itoa(r.Failed),
			r.StartedAt.Local().Format(time.DateTime),
			runDuration(r),
		)
	}
	return t.Render()
}

func writeRunDetail(p *output.Printer, run *domain.Run, outcomes []*domain.Outcome) error {
	p.Print("Run:          %s", run.ID)
	p.Print("Status:       %s", runStatus(run))
	p.Print("Source:       %s", domain.FormatPublicationID(run.Source))
	p.Print("Destinations: %s", strings.Join(domain.FormatPublicationIDs(run.Destinations), ", "))
	p.Print("Started:      %s", run.StartedAt.Local().Format(time.DateTime))
	p.Print("Duration:     %s", runDuration(run))
	p.Print("Products:     %d found, %d published, %d failed", run.Discovered, run.Published, run.Failed)
	if run.Error != nil {
		p.Error("Error:        %s", *run.Error)
	}

	if len(outcomes) == 0 {
		return nil
	}
	p.Print("")
	return writeOutcomes(p.Out(), outcomes)
}

func writeOutcomes(w io.Writer, outcomes []*domain.Outcome) error {
	t := output.NewTable(w, []string{"#", "PRODUCT", "RESULT", "ERROR"})
	for _, o := range outcomes {
		result, msg := "published", ""
		if !o.Published {
			result = "failed"
			if o.Error != nil {
				msg = *o.Error
			}
		}
		t.AddRow(strconv.Itoa(o.Position), o.ProductID, result, msg)
	}
	return t.Render()
}

func runStatus(r *domain.Run) string {
	if r.DryRun {
		return string(r.Status) + " (dry run)"
	}
	return string(r.Status)
}

func runDuration(r *domain.Run) string {
	if r.FinishedAt == nil {
		return "-"
	}
	return r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
}
