package service

import (
	"context"
	"sync"
)

// inflight tracks cancel functions for a store's outstanding requests so the
// store can cancel them all when it is discarded. Completion callbacks then
// never outlive their store.
type inflight struct {
	mu      sync.Mutex
	cancels map[int]context.CancelFunc
	next    int
	closed  bool
}

func newInflight() *inflight {
	return &inflight{cancels: make(map[int]context.CancelFunc)}
}

// start derives a cancelable context owned by the store. The returned done
// function must be called when the request finishes. After close, the
// returned context is already canceled.
func (f *inflight) start(ctx context.Context) (context.Context, func()) {
	cctx, cancel := context.WithCancel(ctx)

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		cancel()
		return cctx, func() {}
	}
	id := f.next
	f.next++
	f.cancels[id] = cancel
	f.mu.Unlock()

	return cctx, func() {
		f.mu.Lock()
		delete(f.cancels, id)
		f.mu.Unlock()
		cancel()
	}
}

// close cancels every outstanding request and rejects new ones.
func (f *inflight) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	for id, cancel := range f.cancels {
		cancel()
		delete(f.cancels, id)
	}
}
