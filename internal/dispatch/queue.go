// Package dispatch carries completion callbacks from background workers
// to the single foreground consumer. Workers never call presentation
// code directly — they post zero-argument closures here, and the
// foreground loop drains them in enqueue order.
package dispatch

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is how often Run drains pending callbacks.
const DefaultInterval = 100 * time.Millisecond

// Queue is an unbounded FIFO of callbacks, safe for concurrent posters.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Post enqueues a callback. Never blocks the posting worker.
func (q *Queue) Post(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Drain executes every callback posted so far, in enqueue order, on the
// calling goroutine. Callbacks posted while draining run on the next
// drain.
func (q *Queue) Drain() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Run drains the queue at the given interval until ctx is cancelled,
// then performs one final drain so no completion is lost.
func (q *Queue) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			q.Drain()
			return
		case <-ticker.C:
			q.Drain()
		}
	}
}
