package notify

import (
	"context"
	"sync"
)

type subscription struct {
	match  func(Event) bool
	signal chan struct{}
}

// Broker fans out events to in-process subscribers.
//
// Subscribers do not receive the events themselves but a signal that
// something they are interested in changed. Signals are coalesced: a slow
// subscriber sees at most one pending signal, no matter how many events
// were published in between.
type Broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]subscription
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[int]subscription),
	}
}

// Subscribe registers a subscriber for all events for which match returns true.
// A nil match subscribes to all events.
//
// The returned channel is closed when ctx is done.
func (b *Broker) Subscribe(ctx context.Context, match func(Event) bool) <-chan struct{} {
	if match == nil {
		match = func(Event) bool { return true }
	}

	s := subscription{
		match:  match,
		signal: make(chan struct{}, 1),
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = s
	b.mu.Unlock()

	go func() {
		<-ctx.Done()

		b.mu.Lock()
		delete(b.subs, id)
		close(s.signal)
		b.mu.Unlock()
	}()

	return s.signal
}

// Publish signals all matching subscribers. It never blocks.
func (b *Broker) Publish(_ context.Context, events ...Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.subs {
		for _, e := range events {
			if !s.match(e) {
				continue
			}

			select {
			case s.signal <- struct{}{}:
			default:
			}
			break
		}
	}

	return nil
}

// Subscribers returns the number of active subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subs)
}
