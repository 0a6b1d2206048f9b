package story

import (
	"time"

	"github.com/orgball2608/vibestream/internal/domain"
	"github.com/orgball2608/vibestream/pkg/config"
)

const (
	DefaultTickInterval  = 100 * time.Millisecond
	DefaultImageDuration = 5 * time.Second
	DefaultVideoDuration = 15 * time.Second
)

// Timing sets how long each item is shown and how often progress moves.
type Timing struct {
	TickInterval  time.Duration
	ImageDuration time.Duration
	VideoDuration time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		TickInterval:  DefaultTickInterval,
		ImageDuration: DefaultImageDuration,
		VideoDuration: DefaultVideoDuration,
	}
}

// TimingFromConfig falls back to the defaults for unset values.
func TimingFromConfig(cfg *config.Config) Timing {
	return Timing{
		TickInterval:  cfg.Story.TickInterval,
		ImageDuration: cfg.Story.ImageDuration,
		VideoDuration: cfg.Story.VideoDuration,
	}.withDefaults()
}

func (t Timing) withDefaults() Timing {
	if t.TickInterval <= 0 {
		t.TickInterval = DefaultTickInterval
	}
	if t.ImageDuration <= 0 {
		t.ImageDuration = DefaultImageDuration
	}
	if t.VideoDuration <= 0 {
		t.VideoDuration = DefaultVideoDuration
	}
	return t
}

func (t Timing) Duration(item domain.StoryItem) time.Duration {
	if item.IsVideo {
		return t.VideoDuration
	}
	return t.ImageDuration
}

// TicksFor is the number of ticks an item stays on screen, at least one.
func (t Timing) TicksFor(item domain.StoryItem) int {
	d := t.Duration(item)
	n := int((d + t.TickInterval - 1) / t.TickInterval)
	if n < 1 {
		return 1
	}
	return n
}
