package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name              string
		requestsPerSecond float64
		wantLimit         float64
	}{
		{name: "unlimited_zero", requestsPerSecond: 0, wantLimit: 0},
		{name: "unlimited_negative", requestsPerSecond: -1, wantLimit: 0},
		{name: "one_per_second", requestsPerSecond: 1, wantLimit: 1},
		{name: "fractional", requestsPerSecond: 0.5, wantLimit: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := New(tt.requestsPerSecond)
			if got := limiter.Limit(); got != tt.wantLimit {
				t.Errorf("Limit() = %f, want %f", got, tt.wantLimit)
			}
		})
	}
}

func TestAllow(t *testing.T) {
	t.Run("unlimited_allows_all", func(t *testing.T) {
		limiter := New(0)

		for i := range 10 {
			if !limiter.Allow() {
				t.Errorf("unlimited limiter rejected operation %d", i)
			}
		}
	})

	t.Run("limited_rejects_burst", func(t *testing.T) {
		limiter := New(1)

		if !limiter.Allow() {
			t.Error("first operation should be allowed")
		}
		if limiter.Allow() {
			t.Error("second immediate operation should be throttled")
		}
	})
}

func TestWaitHonorsContext(t *testing.T) {
	limiter := New(0.001)

	// Consume the burst so the next Wait would block for a long time.
	if !limiter.Allow() {
		t.Fatal("burst operation should be allowed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err == nil {
		t.Error("Wait() should fail once the context expires")
	}
}
