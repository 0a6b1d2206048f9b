package story

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

type viewerFixture struct {
	viewer  *Viewer
	clock   *clockwork.FakeClock
	changes chan Snapshot
	closed  *atomic.Int32
}

func openViewer(t *testing.T, n int, start int) *viewerFixture {
	t.Helper()

	f := &viewerFixture{
		clock:   clockwork.NewFakeClock(),
		changes: make(chan Snapshot, 256),
		closed:  &atomic.Int32{},
	}
	f.viewer = Open(items(make([]bool, n)...), ViewerOpts{
		Clock:        f.clock,
		Timing:       fastTiming,
		InitialIndex: start,
		OnClose:      func() { f.closed.Add(1) },
		OnChange:     func(s Snapshot) { f.changes <- s },
	})
	t.Cleanup(f.viewer.Close)
	return f
}

func (f *viewerFixture) tick(t *testing.T) Snapshot {
	t.Helper()
	f.clock.Advance(fastTiming.TickInterval)
	return f.next(t)
}

func (f *viewerFixture) next(t *testing.T) Snapshot {
	t.Helper()
	select {
	case s := <-f.changes:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("no viewer change")
		return Snapshot{}
	}
}

func (f *viewerFixture) quiet(t *testing.T) {
	t.Helper()
	select {
	case s := <-f.changes:
		t.Fatalf("unexpected change: %+v", s)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestViewer_AdvancesAfterItemDuration(t *testing.T) {
	f := openViewer(t, 3, 0)

	for i := 1; i <= 4; i++ {
		s := f.tick(t)
		if s.Index != 0 {
			t.Fatalf("tick %d: index = %d, want 0", i, s.Index)
		}
	}

	s := f.tick(t)
	if s.Index != 1 || s.Fraction != 0 {
		t.Fatalf("after 5 ticks: index=%d fraction=%v", s.Index, s.Fraction)
	}
}

func TestViewer_ClosesAtEndOnce(t *testing.T) {
	f := openViewer(t, 1, 0)

	var s Snapshot
	for i := 0; i < 5; i++ {
		s = f.tick(t)
	}
	if !s.Closed {
		t.Fatal("viewer should close after the last item")
	}

	select {
	case <-f.viewer.Done():
	case <-time.After(time.Second):
		t.Fatal("done not closed")
	}

	f.viewer.Close()
	f.clock.Advance(time.Second)
	f.quiet(t)

	if got := f.closed.Load(); got != 1 {
		t.Fatalf("close callback ran %d times, want 1", got)
	}
}

func TestViewer_NavigationResetsTicker(t *testing.T) {
	f := openViewer(t, 3, 0)

	f.tick(t)
	f.clock.Advance(fastTiming.TickInterval / 2)

	f.viewer.Next()
	if s := f.next(t); s.Index != 1 || s.Fraction != 0 {
		t.Fatalf("after next: %+v", s)
	}

	// the old ticker would fire here
	f.clock.Advance(fastTiming.TickInterval / 2)
	f.quiet(t)

	f.clock.Advance(fastTiming.TickInterval / 2)
	s := f.next(t)
	if s.Index != 1 || s.Fraction != 0.2 {
		t.Fatalf("first tick after navigation: index=%d fraction=%v", s.Index, s.Fraction)
	}
}

func TestViewer_CloseStopsTicks(t *testing.T) {
	f := openViewer(t, 2, 0)

	f.viewer.Close()
	if s := f.next(t); !s.Closed {
		t.Fatalf("snapshot = %+v, want closed", s)
	}

	f.clock.Advance(time.Second)
	f.quiet(t)

	f.viewer.Close()
	if got := f.closed.Load(); got != 1 {
		t.Fatalf("close callback ran %d times, want 1", got)
	}
}

func TestViewer_EmptySequenceClosesImmediately(t *testing.T) {
	f := openViewer(t, 0, 0)

	select {
	case <-f.viewer.Done():
	default:
		t.Fatal("empty viewer should be closed")
	}
	if got := f.closed.Load(); got != 1 {
		t.Fatalf("close callback ran %d times, want 1", got)
	}

	f.clock.Advance(time.Second)
	f.quiet(t)
}

func TestViewer_ToggleLikeKeepsTimer(t *testing.T) {
	f := openViewer(t, 2, 0)

	f.tick(t)
	f.viewer.ToggleLike()
	if s := f.next(t); !s.Liked || s.Fraction != 0.2 {
		t.Fatalf("after like: %+v", s)
	}

	s := f.tick(t)
	if s.Fraction != 0.4 || !s.Liked {
		t.Fatalf("after tick: %+v", s)
	}
}
