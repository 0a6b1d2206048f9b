package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/vibestream/internal/domain"
)

func TestBroadcaster_DeliversInOrder(t *testing.T) {
	b := NewBroadcaster()
	sub := b.Subscribe()
	defer sub.Unsubscribe()

	first := &domain.Session{UserID: uuid.New()}
	b.Publish(Event{Kind: EventSignedIn, Session: first})
	b.Publish(Event{Kind: EventSignedOut})

	ev := <-sub.C
	if ev.Kind != EventSignedIn || ev.Session != first {
		t.Fatalf("first event = %+v, want signed in", ev)
	}
	ev = <-sub.C
	if ev.Kind != EventSignedOut || ev.Session != nil {
		t.Fatalf("second event = %+v, want signed out", ev)
	}
}

func TestBroadcaster_UnsubscribeReleases(t *testing.T) {
	b := NewBroadcaster()
	sub := b.Subscribe()

	sub.Unsubscribe()
	sub.Unsubscribe()

	if b.Len() != 0 {
		t.Fatalf("subscribers = %d, want 0", b.Len())
	}

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriptionBuffer*2; i++ {
			b.Publish(Event{Kind: EventSignedOut})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a released subscription")
	}
}

func TestBroadcaster_FullSubscriberReleasedMidPublish(t *testing.T) {
	b := NewBroadcaster()
	sub := b.Subscribe()

	for i := 0; i < subscriptionBuffer; i++ {
		b.Publish(Event{Kind: EventTokenRefreshed})
	}

	done := make(chan struct{})
	go func() {
		b.Publish(Event{Kind: EventSignedOut})
		close(done)
	}()

	sub.Unsubscribe()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish did not return after unsubscribe")
	}
}
