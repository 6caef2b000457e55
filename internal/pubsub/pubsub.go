// Package pubsub provides a minimal synchronous publish/subscribe topic.
//
// Stores publish immutable state snapshots through a Topic; observers
// (typically a UI layer) subscribe to re-render on change. Delivery is
// synchronous and in subscription order, so a subscriber always observes
// states in the order the owning store produced them.
package pubsub

import "sync"

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Topic fans out values of type T to its current subscribers.
// The zero value is ready to use.
type Topic[T any] struct {
	mu   sync.Mutex
	subs []subscriber[T]
	next int
}

// Subscribe registers fn and returns a cancel function that removes it.
// Cancel is idempotent.
func (t *Topic[T]) Subscribe(fn func(T)) (cancel func()) {
	t.mu.Lock()
	id := t.next
	t.next++
	t.subs = append(t.subs, subscriber[T]{id: id, fn: fn})
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			for i, s := range t.subs {
				if s.id == id {
					t.subs = append(t.subs[:i], t.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish delivers v to every current subscriber, synchronously, in
// subscription order. Subscribers registered while a publish is in flight
// only see subsequent values.
func (t *Topic[T]) Publish(v T) {
	t.mu.Lock()
	subs := make([]subscriber[T], len(t.subs))
	copy(subs, t.subs)
	t.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// Len reports the number of active subscribers.
func (t *Topic[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}
