package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/vibestream/pkg/logger"
)

func fastConfig() Config {
	return Config{
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Multiplier:      1.5,
	}
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), logger.NewNop(), "flaky", func() error {
		attempts++
		if attempts < 2 {
			return errors.New("transient")
		}
		return nil
	}, fastConfig())
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
}

func TestDo_GivesUpAfterMaxRetries(t *testing.T) {
	attempts := 0
	boom := errors.New("boom")
	err := Do(context.Background(), logger.NewNop(), "broken", func() error {
		attempts++
		return boom
	}, fastConfig())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestDo_PermanentErrorStopsImmediately(t *testing.T) {
	exists := errors.New("object already exists")
	cfg := fastConfig()
	cfg.Permanent = func(err error) bool { return errors.Is(err, exists) }

	attempts := 0
	err := Do(context.Background(), logger.NewNop(), "upload", func() error {
		attempts++
		return exists
	}, cfg)
	if !errors.Is(err, exists) {
		t.Fatalf("err = %v, want the permanent error", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
}

func TestDo_WaitsOnInjectedClock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cfg := Config{
		MaxRetries:      1,
		InitialInterval: time.Hour,
		MaxInterval:     time.Hour,
		Multiplier:      1,
		Clock:           clock,
	}

	attempts := 0
	done := make(chan error, 1)
	go func() {
		done <- Do(context.Background(), logger.NewNop(), "slow", func() error {
			attempts++
			if attempts == 1 {
				return errors.New("transient")
			}
			return nil
		}, cfg)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := clock.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("retry never waited on the clock: %v", err)
	}

	select {
	case err := <-done:
		t.Fatalf("returned before the clock advanced: %v", err)
	default:
	}

	clock.Advance(2 * time.Hour)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("do: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("retry did not resume after the clock advanced")
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
}

func TestDo_ContextCancelStopsWaiting(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cfg := fastConfig()
	cfg.Clock = clock

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, logger.NewNop(), "cancelled", func() error {
			return errors.New("transient")
		}, cfg)
	}()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer waitCancel()
	if err := clock.BlockUntilContext(waitCtx, 1); err != nil {
		t.Fatalf("retry never waited on the clock: %v", err)
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("retry did not stop on cancel")
	}
}
