package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/vibestream/pkg/logger"
)

type Config struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	// Clock drives the waits between attempts. Nil means the real clock.
	Clock clockwork.Clock
	// Permanent reports errors that retrying cannot fix.
	Permanent func(error) bool
}

func DefaultConfig() Config {
	return Config{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      1.5,
	}
}

// Do runs operation until it succeeds, fails permanently, runs out of
// retries or ctx is done. The last error is returned wrapped with the
// operation name.
func Do(ctx context.Context, log logger.Logger, operationName string, operation func() error, cfg Config) error {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	bo := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(cfg.InitialInterval),
		backoff.WithMaxInterval(cfg.MaxInterval),
		backoff.WithMultiplier(cfg.Multiplier),
		backoff.WithClockProvider(clock),
	)
	retryable := backoff.WithContext(backoff.WithMaxRetries(bo, cfg.MaxRetries), ctx)

	attempts := 0
	attempt := func() error {
		attempts++
		err := operation()
		if err != nil && cfg.Permanent != nil && cfg.Permanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, t time.Duration) {
		log.Warn(
			"Operation failed, retrying...",
			"operation", operationName,
			"attempt", attempts,
			"error", err,
			"next_attempt_in", t.Round(time.Millisecond).String(),
		)
	}

	err := backoff.RetryNotifyWithTimer(attempt, retryable, notify, &clockTimer{clock: clock})
	if err != nil {
		return fmt.Errorf("%s failed after %d attempt(s): %w", operationName, attempts, err)
	}
	if attempts > 1 {
		log.Info("Operation succeeded after retrying", "operation", operationName, "attempts", attempts)
	}
	return nil
}

// clockTimer adapts a clockwork timer to backoff.Timer.
type clockTimer struct {
	clock clockwork.Clock
	timer clockwork.Timer
}

func (t *clockTimer) Start(d time.Duration) {
	if t.timer == nil {
		t.timer = t.clock.NewTimer(d)
		return
	}
	t.timer.Reset(d)
}

func (t *clockTimer) Stop() {
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (t *clockTimer) C() <-chan time.Time {
	return t.timer.Chan()
}
