package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/usamadar/shopify-publish-channel/internal/queue"
)

// Publisher publishes one product to a list of destination publications.
type Publisher interface {
	Publish(ctx context.Context, productID string, destinations []string) error
}

// Result is the outcome of one publish attempt.
type Result struct {
	Item    queue.Item
	Err     error
	Latency time.Duration
}

// Worker is a single goroutine that pulls items from the work queue and
// publishes each one. A failed item is reported and never stops the worker.
type Worker struct {
	id           int
	q            *queue.WorkQueue
	pub          Publisher
	destinations []string
	logger       *zap.Logger

	// Hooks injected by the pool.
	onPublished func(latency time.Duration)
	onFailed    func(err error)
	onDone      func(Result)
}

// NewWorker constructs a worker. The hook funcs are optional (nil = no-op).
func NewWorker(
	id int,
	q *queue.WorkQueue,
	pub Publisher,
	destinations []string,
	logger *zap.Logger,
	onPublished func(time.Duration),
	onFailed func(error),
	onDone func(Result),
) *Worker {
	if onPublished == nil {
		onPublished = func(time.Duration) {}
	}
	if onFailed == nil {
		onFailed = func(error) {}
	}
	if onDone == nil {
		onDone = func(Result) {}
	}
	return &Worker{
		id: id, q: q, pub: pub, destinations: destinations, logger: logger,
		onPublished: onPublished, onFailed: onFailed, onDone: onDone,
	}
}

// Run blocks until the queue is drained or ctx is cancelled, processing one
// item per iteration.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Debug("worker started", zap.Int("id", w.id))
	for {
		item, ok := w.q.Dequeue(ctx)
		if !ok {
			w.logger.Debug("worker stopping", zap.Int("id", w.id))
			return
		}
		w.onDone(w.process(ctx, item))
	}
}

func (w *Worker) process(ctx context.Context, item queue.Item) (res Result) {
	start := time.Now()
	res.Item = item
	log := w.logger.With(
		zap.String("product_id", item.ProductID),
		zap.Int("position", item.Position),
	)

	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("publish panicked: %v", r)
			res.Latency = time.Since(start)
			log.Error("publish panicked", zap.Any("panic", r))
			w.onFailed(res.Err)
		}
	}()

	err := w.pub.Publish(ctx, item.ProductID, w.destinations)
	res.Latency = time.Since(start)
	res.Err = err

	if err != nil {
		log.Warn("error publishing product", zap.Error(err), zap.Duration("latency", res.Latency))
		w.onFailed(err)
		return res
	}

	w.onPublished(res.Latency)
	log.Debug("product published", zap.Duration("latency", res.Latency))
	return res
}
