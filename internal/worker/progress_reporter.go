package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Snapshot is a point-in-time view of propagation progress.
type Snapshot struct {
	RunID      string `json:"run_id"`
	Total      int    `json:"total"`
	Processed  int    `json:"processed"`
	Published  int    `json:"published"`
	Failed     int    `json:"failed"`
	QueueDepth int    `json:"queue_depth"`
}

// ProgressReporter logs a progress snapshot every interval while a long
// propagation is running.
type ProgressReporter struct {
	snapshot func() Snapshot
	interval time.Duration
	logger   *zap.Logger
}

func NewProgressReporter(snapshot func() Snapshot, interval time.Duration, logger *zap.Logger) *ProgressReporter {
	return &ProgressReporter{snapshot: snapshot, interval: interval, logger: logger}
}

// Run ticks every interval and logs the current snapshot.
// Stops cleanly when ctx is cancelled.
func (pr *ProgressReporter) Run(ctx context.Context) {
	if pr.interval <= 0 {
		return
	}
	ticker := time.NewTicker(pr.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s := pr.snapshot()
			pr.logger.Info("propagation progress",
				zap.String("run_id", s.RunID),
				zap.Int("processed", s.Processed),
				zap.Int("total", s.Total),
				zap.Int("published", s.Published),
				zap.Int("failed", s.Failed),
				zap.Int("queue_depth", s.QueueDepth),
			)
		}
	}
}
