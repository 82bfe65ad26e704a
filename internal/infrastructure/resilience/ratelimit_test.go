package resilience

import (
	"context"
	"errors"
	"testing"
)

func TestRateLimiterHonoursBurst(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2, nil)

	if !limiter.Allow() || !limiter.Allow() {
		t.Fatalf("expected burst of two calls to pass")
	}
	if limiter.Allow() {
		t.Fatalf("expected third call to be limited")
	}
}

func TestRateLimiterWaitRespectsContext(t *testing.T) {
	limiter := NewRateLimiter(0.001, 1, nil)
	limiter.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := limiter.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := NewRateLimiter(0, 0, nil)
	for i := 0; i < 100; i++ {
		if !limiter.Allow() {
			t.Fatalf("disabled limiter rejected call %d", i)
		}
	}
}
