package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/usamadar/shopify-publish-channel/internal/queue"
	"github.com/usamadar/shopify-publish-channel/internal/worker"
)

// fakePublisher fails or panics for configured product IDs and records
// every call in order.
type fakePublisher struct {
	mu     sync.Mutex
	calls  []string
	fail   map[string]error
	panics map[string]bool
}

func (f *fakePublisher) Publish(_ context.Context, productID string, _ []string) error {
	f.mu.Lock()
	f.calls = append(f.calls, productID)
	err := f.fail[productID]
	p := f.panics[productID]
	f.mu.Unlock()
	if p {
		panic("boom")
	}
	return err
}

func fill(t *testing.T, ids ...string) *queue.WorkQueue {
	t.Helper()
	q := queue.New(len(ids))
	for i, id := range ids {
		if err := q.Enqueue(queue.Item{ProductID: id, Position: i + 1}); err != nil {
			t.Fatal(err)
		}
	}
	q.Close()
	return q
}

type collector struct {
	mu        sync.Mutex
	results   []worker.Result
	published int
	failed    int
}

func (c *collector) hooks() worker.Hooks {
	return worker.Hooks{
		OnPublished: func(time.Duration) { c.mu.Lock(); c.published++; c.mu.Unlock() },
		OnFailed:    func(error) { c.mu.Lock(); c.failed++; c.mu.Unlock() },
		OnDone:      func(r worker.Result) { c.mu.Lock(); c.results = append(c.results, r); c.mu.Unlock() },
	}
}

func TestPool_SequentialKeepsOrderAndIsolatesFailures(t *testing.T) {
	pub := &fakePublisher{fail: map[string]error{"p2": errors.New("connection reset")}}
	q := fill(t, "p1", "p2", "p3")
	c := &collector{}

	pool := worker.NewPool(1, q, pub, []string{"10"}, zap.NewNop(), c.hooks())
	pool.Start(context.Background())
	pool.Wait()

	want := []string{"p1", "p2", "p3"}
	if len(pub.calls) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(pub.calls))
	}
	for i := range want {
		if pub.calls[i] != want[i] {
			t.Fatalf("call %d: expected %s, got %s", i, want[i], pub.calls[i])
		}
	}
	if c.published != 2 || c.failed != 1 {
		t.Fatalf("expected 2 published / 1 failed, got %d / %d", c.published, c.failed)
	}
	if len(c.results) != 3 || c.results[1].Err == nil {
		t.Fatalf("expected the second result to carry the error: %+v", c.results)
	}
}

func TestPool_PanicIsIsolated(t *testing.T) {
	pub := &fakePublisher{panics: map[string]bool{"p1": true}}
	q := fill(t, "p1", "p2")
	c := &collector{}

	pool := worker.NewPool(1, q, pub, nil, zap.NewNop(), c.hooks())
	pool.Start(context.Background())
	pool.Wait()

	if len(c.results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(c.results))
	}
	if c.results[0].Err == nil {
		t.Fatal("expected panic to be reported as an error")
	}
	if c.results[1].Err != nil {
		t.Fatalf("expected p2 to succeed, got %v", c.results[1].Err)
	}
}

func TestPool_ConcurrentWorkersProcessEverything(t *testing.T) {
	ids := make([]string, 50)
	fail := make(map[string]error)
	for i := range ids {
		ids[i] = "p" + string(rune('A'+i%26)) + string(rune('a'+i/26))
		if i%7 == 0 {
			fail[ids[i]] = errors.New("throttled")
		}
	}
	pub := &fakePublisher{fail: fail}
	c := &collector{}

	pool := worker.NewPool(4, fill(t, ids...), pub, []string{"1", "2"}, zap.NewNop(), c.hooks())
	if pool.Size() != 4 {
		t.Fatalf("expected 4 workers, got %d", pool.Size())
	}
	pool.Start(context.Background())
	pool.Wait()

	if len(c.results) != len(ids) {
		t.Fatalf("expected %d results, got %d", len(ids), len(c.results))
	}
	if c.failed != len(fail) || c.published != len(ids)-len(fail) {
		t.Fatalf("unexpected counts: published=%d failed=%d", c.published, c.failed)
	}
}

func TestPool_StopsOnCancel(t *testing.T) {
	q := queue.New(1) // never closed
	pool := worker.NewPool(2, q, &fakePublisher{}, nil, zap.NewNop(), worker.Hooks{})

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() { pool.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pool did not stop after cancellation")
	}
}

func TestProgressReporter_StopsOnCancel(t *testing.T) {
	calls := 0
	var mu sync.Mutex
	pr := worker.NewProgressReporter(func() worker.Snapshot {
		mu.Lock()
		calls++
		mu.Unlock()
		return worker.Snapshot{Total: 1}
	}, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { pr.Run(ctx); close(done) }()

	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reporter did not stop")
	}
	mu.Lock()
	defer mu.Unlock()
	if calls == 0 {
		t.Fatal("expected at least one snapshot")
	}
}
