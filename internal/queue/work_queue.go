package queue

import (
	"context"
	"sync"

	"github.com/usamadar/shopify-publish-channel/internal/domain"
)

// WorkQueue is a bounded FIFO of publish items shared by all workers.
//
// The work list is fully known before propagation starts, so the queue is
// sized to hold it and then closed; workers drain it and stop once it is
// empty.
type WorkQueue struct {
	items     chan Item
	closeOnce sync.Once
}

func New(capacity int) *WorkQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &WorkQueue{items: make(chan Item, capacity)}
}

// Enqueue places an item on the queue.
// It is non-blocking: if the queue is full, ErrQueueFull is returned immediately.
func (q *WorkQueue) Enqueue(item Item) error {
	select {
	case q.items <- item:
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// Close signals that no more items will be enqueued.
func (q *WorkQueue) Close() {
	q.closeOnce.Do(func() { close(q.items) })
}

// Dequeue blocks until an item is available, the queue is closed and
// drained, or ctx is cancelled. It returns (Item{}, false) in the latter two
// cases.
func (q *WorkQueue) Dequeue(ctx context.Context) (Item, bool) {
	// Cancellation wins over remaining items.
	if ctx.Err() != nil {
		return Item{}, false
	}
	select {
	case item, ok := <-q.items:
		return item, ok
	case <-ctx.Done():
		return Item{}, false
	}
}

// Depth returns the number of items waiting.
func (q *WorkQueue) Depth() int {
	return len(q.items)
}
