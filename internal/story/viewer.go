package story

import (
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/vibestream/internal/domain"
)

type ViewerOpts struct {
	Clock        clockwork.Clock
	Timing       Timing
	InitialIndex int
	// OnClose runs exactly once when the viewer reaches the closed state.
	OnClose func()
	// OnChange receives a snapshot after every state change.
	OnChange func(Snapshot)
}

// Viewer plays a Playback against one repeating ticker. Manual navigation
// replaces the ticker so a tick scheduled before the navigation is never applied.
type Viewer struct {
	clock    clockwork.Clock
	onClose  func()
	onChange func(Snapshot)

	mu       sync.Mutex
	playback *Playback
	ticker   clockwork.Ticker
	tickStop chan struct{}
	gen      uint64

	closeOnce sync.Once
	done      chan struct{}
}

// Open starts playing items. With an empty sequence no ticker is started and
// OnClose runs before Open returns.
func Open(items []domain.StoryItem, opts ViewerOpts) *Viewer {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	v := &Viewer{
		clock:    opts.Clock,
		onClose:  opts.OnClose,
		onChange: opts.OnChange,
		playback: NewPlayback(items, opts.InitialIndex, opts.Timing),
		done:     make(chan struct{}),
	}

	if v.playback.Closed() {
		v.finish()
		return v
	}

	v.mu.Lock()
	v.restartTickerLocked()
	v.mu.Unlock()
	return v
}

func (v *Viewer) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.playback.Snapshot()
}

// Done is closed once the viewer is closed.
func (v *Viewer) Done() <-chan struct{} {
	return v.done
}

func (v *Viewer) Next() {
	v.navigate(func(p *Playback) { p.Next() }, true)
}

func (v *Viewer) Previous() {
	v.navigate(func(p *Playback) { p.Previous() }, true)
}

func (v *Viewer) ToggleLike() {
	v.navigate(func(p *Playback) { p.ToggleLike() }, false)
}

// Close stops playback. Safe to call more than once.
func (v *Viewer) Close() {
	v.navigate(func(p *Playback) { p.Close() }, false)
}

func (v *Viewer) navigate(apply func(*Playback), resetTicker bool) {
	v.mu.Lock()
	if v.playback.Closed() {
		v.mu.Unlock()
		return
	}

	before := v.playback.Index()
	apply(v.playback)
	snap := v.playback.Snapshot()

	switch {
	case snap.Closed:
		v.stopTickerLocked()
	case resetTicker && snap.Index != before:
		v.restartTickerLocked()
	}
	v.mu.Unlock()

	v.emit(snap)
	if snap.Closed {
		v.finish()
	}
}

func (v *Viewer) tick(gen uint64) bool {
	v.mu.Lock()
	if gen != v.gen || v.playback.Closed() {
		v.mu.Unlock()
		return false
	}

	v.playback.Tick()
	snap := v.playback.Snapshot()
	if snap.Closed {
		v.stopTickerLocked()
	}
	v.mu.Unlock()

	v.emit(snap)
	if snap.Closed {
		v.finish()
		return false
	}
	return true
}

func (v *Viewer) restartTickerLocked() {
	v.stopTickerLocked()

	v.gen++
	gen := v.gen
	ticker := v.clock.NewTicker(v.playback.Timing().TickInterval)
	stop := make(chan struct{})
	v.ticker = ticker
	v.tickStop = stop

	go func() {
		for {
			select {
			case <-stop:
				return
			case <-ticker.Chan():
				if !v.tick(gen) {
					return
				}
			}
		}
	}()
}

func (v *Viewer) stopTickerLocked() {
	if v.ticker == nil {
		return
	}
	v.ticker.Stop()
	close(v.tickStop)
	v.ticker = nil
	v.tickStop = nil
	v.gen++
}

func (v *Viewer) emit(snap Snapshot) {
	if v.onChange != nil {
		v.onChange(snap)
	}
}

func (v *Viewer) finish() {
	v.closeOnce.Do(func() {
		close(v.done)
		if v.onClose != nil {
			v.onClose()
		}
	})
}
