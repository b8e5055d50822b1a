package events

import (
	"sync"
	"time"
)

// Handler receives events published on a topic.
type Handler func(e Event)

// UnsubscribeFunc removes a subscription. Safe to call more than once.
type UnsubscribeFunc func()

type subscription struct {
	id      int
	handler Handler
}

// Bus is a process-scoped publish/subscribe channel keyed by topic.
//
// Dispatch is synchronous: Publish invokes every handler registered for the
// topic, in subscription order, before returning. There is no delivery
// guarantee when no subscribers exist and no deduplication across
// subscribers. The bus is injected rather than ambient so tests get a fresh
// instance each.
type Bus struct {
	mu     sync.Mutex
	subs   map[Topic][]subscription
	nextID int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]subscription)}
}

// Subscribe registers handler for topic and returns its disposer. The owner
// must invoke the disposer on teardown, on every exit path; after the
// disposer returns the handler receives no further events.
func (b *Bus) Subscribe(topic Topic, handler Handler) UnsubscribeFunc {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		current := b.subs[topic]
		for i, sub := range current {
			if sub.id == id {
				b.subs[topic] = append(current[:i:i], current[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers e to all handlers currently subscribed to its topic, in
// subscription order. Publishing with zero subscribers is a valid no-op.
//
// Handlers run over a snapshot of the subscriber list, so a handler may
// subscribe or unsubscribe during dispatch without corrupting iteration;
// such mutations take effect for the next publish.
func (b *Bus) Publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	b.mu.Lock()
	current := b.subs[e.Topic]
	snapshot := make([]subscription, len(current))
	copy(snapshot, current)
	b.mu.Unlock()

	for _, sub := range snapshot {
		sub.handler(e)
	}
}

// SubscriberCount returns how many handlers are registered for topic.
func (b *Bus) SubscriberCount(topic Topic) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[topic])
}
