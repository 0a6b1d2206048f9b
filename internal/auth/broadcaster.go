package auth

import (
	"sync"
)

const subscriptionBuffer = 16

// Subscription is an ordered stream of auth events.
type Subscription struct {
	C <-chan Event

	ch   chan Event
	done chan struct{}
	once sync.Once
	stop func()
}

// Unsubscribe releases the subscription. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		close(s.done)
		if s.stop != nil {
			s.stop()
		}
	})
}

// Done is closed once the subscription is released.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Broadcaster fans events out to subscribers, preserving publish order.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}

	publishMu sync.Mutex
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[*Subscription]struct{})}
}

func (b *Broadcaster) Subscribe() *Subscription {
	ch := make(chan Event, subscriptionBuffer)
	sub := &Subscription{C: ch, ch: ch, done: make(chan struct{})}
	sub.stop = func() {
		b.mu.Lock()
		delete(b.subs, sub)
		b.mu.Unlock()
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Publish blocks until every live subscriber accepted the event or unsubscribed.
func (b *Broadcaster) Publish(ev Event) {
	b.publishMu.Lock()
	defer b.publishMu.Unlock()

	b.mu.Lock()
	subs := make([]*Subscription, 0, len(b.subs))
	for sub := range b.subs {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		select {
		case sub.ch <- ev:
		case <-sub.done:
		}
	}
}

// Len returns the number of live subscribers.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
