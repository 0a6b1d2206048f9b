package ratelimit

import (
	"testing"
	"time"
)

func TestInMemoryLimiter_BurstPerKey(t *testing.T) {
	l := NewInMemoryLimiter(1, time.Hour, 2)

	if !l.Allow("a@example.com") || !l.Allow("a@example.com") {
		t.Fatal("expected burst of two to be allowed")
	}
	if l.Allow("a@example.com") {
		t.Fatal("third attempt should be throttled")
	}
	if !l.Allow("b@example.com") {
		t.Fatal("other keys keep their own bucket")
	}
}
