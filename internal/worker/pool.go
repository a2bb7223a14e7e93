package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/usamadar/shopify-publish-channel/internal/queue"
)

// Hooks carries the callback functions injected by the service.
// Using a struct keeps the pool constructor signature clean.
type Hooks struct {
	OnPublished func(latency time.Duration)
	OnFailed    func(err error)
	OnDone      func(Result)
}

// Pool manages the lifecycle of all publish workers.
// All workers share the same queue; a pool of size 1 publishes strictly in
// work-list order.
type Pool struct {
	workers []*Worker
	wg      sync.WaitGroup
}

// NewPool creates size identical workers. Sizes below 1 are raised to 1.
func NewPool(
	size int,
	q *queue.WorkQueue,
	pub Publisher,
	destinations []string,
	logger *zap.Logger,
	hooks Hooks,
) *Pool {
	if size < 1 {
		size = 1
	}
	workers := make([]*Worker, size)

	for i := range workers {
		workers[i] = NewWorker(
			i, q, pub, destinations,
			logger.With(zap.Int("worker_id", i)),
			hooks.OnPublished,
			hooks.OnFailed,
			hooks.OnDone,
		)
	}

	return &Pool{workers: workers}
}

// Size is the number of workers in the pool.
func (p *Pool) Size() int { return len(p.workers) }

// Start launches all workers as goroutines.
// The provided ctx is forwarded to every worker; cancelling it stops the
// pool after in-flight items return.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Run(ctx)
		}(w)
	}
}

// Wait blocks until every worker has returned, either because the queue
// was closed and drained or because ctx was cancelled.
func (p *Pool) Wait() {
	p.wg.Wait()
}
