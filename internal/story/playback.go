// Package story drives the full-screen story viewer: timed auto-advance,
// manual navigation and per-item progress.
package story

import (
	"github.com/orgball2608/vibestream/internal/domain"
)

// Snapshot is what a renderer needs to draw the viewer.
type Snapshot struct {
	Index    int              `json:"index"`
	Total    int              `json:"total"`
	Fraction float64          `json:"fraction"`
	Liked    bool             `json:"liked"`
	Closed   bool             `json:"closed"`
	Item     domain.StoryItem `json:"item"`
	Progress []float64        `json:"progress"`
}

// Playback is the viewer state machine. It is either playing an index or closed.
// It is not safe for concurrent use; Viewer serializes access.
type Playback struct {
	items  []domain.StoryItem
	timing Timing

	index   int
	elapsed int
	liked   bool
	closed  bool
}

// NewPlayback clamps initialIndex into range. An empty sequence starts closed.
func NewPlayback(items []domain.StoryItem, initialIndex int, timing Timing) *Playback {
	p := &Playback{
		items:  append([]domain.StoryItem(nil), items...),
		timing: timing.withDefaults(),
	}

	if len(p.items) == 0 {
		p.closed = true
		return p
	}

	p.index = min(max(initialIndex, 0), len(p.items)-1)
	return p
}

func (p *Playback) Closed() bool { return p.closed }

func (p *Playback) Index() int { return p.index }

func (p *Playback) Len() int { return len(p.items) }

func (p *Playback) Liked() bool { return p.liked }

func (p *Playback) Timing() Timing { return p.timing }

// Fraction is the elapsed share of the current item in [0, 1].
func (p *Playback) Fraction() float64 {
	if p.closed {
		return 0
	}
	return float64(p.elapsed) / float64(p.timing.TicksFor(p.items[p.index]))
}

// Tick moves the current item forward by one tick interval and advances
// once the item's duration has fully elapsed.
func (p *Playback) Tick() {
	if p.closed {
		return
	}
	p.elapsed++
	if p.elapsed >= p.timing.TicksFor(p.items[p.index]) {
		p.Next()
	}
}

// Next moves to the following item, closing after the last one.
func (p *Playback) Next() {
	if p.closed {
		return
	}
	if p.index >= len(p.items)-1 {
		p.Close()
		return
	}
	p.moveTo(p.index + 1)
}

// Previous moves back one item. It does nothing on the first item.
func (p *Playback) Previous() {
	if p.closed || p.index == 0 {
		return
	}
	p.moveTo(p.index - 1)
}

func (p *Playback) Close() {
	p.closed = true
	p.elapsed = 0
	p.liked = false
}

// ToggleLike flips the viewer's like on the current item. Not persisted.
func (p *Playback) ToggleLike() {
	if p.closed {
		return
	}
	p.liked = !p.liked
}

// Progress returns the bar fill of item i: full before the current item,
// partial at it and empty after it.
func (p *Playback) Progress(i int) float64 {
	switch {
	case p.closed || i > p.index:
		return 0
	case i < p.index:
		return 1
	default:
		return p.Fraction()
	}
}

func (p *Playback) Snapshot() Snapshot {
	s := Snapshot{
		Index:    p.index,
		Total:    len(p.items),
		Fraction: p.Fraction(),
		Liked:    p.liked,
		Closed:   p.closed,
		Progress: make([]float64, len(p.items)),
	}
	if !p.closed {
		s.Item = p.items[p.index]
	}
	for i := range p.items {
		s.Progress[i] = p.Progress(i)
	}
	return s
}

func (p *Playback) moveTo(index int) {
	p.index = index
	p.elapsed = 0
	p.liked = false
}
