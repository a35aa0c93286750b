package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSlidingWindowLimiter(t *testing.T) {
	t.Run("admits_up_to_limit_then_rejects", func(t *testing.T) {
		limiter := NewSlidingWindowLimiter(3, time.Minute)
		t.Cleanup(limiter.Close)

		for i := 0; i < 3; i++ {
			d := limiter.Allow("10.0.0.1", "audits")
			require.True(t, d.Allowed)
			require.Equal(t, 3, d.Limit)
			require.Equal(t, 2-i, d.Remaining)
		}

		d := limiter.Allow("10.0.0.1", "audits")
		require.False(t, d.Allowed)
		require.Zero(t, d.Remaining)
		require.False(t, d.ResetAt.IsZero())
	})

	t.Run("buckets_are_independent", func(t *testing.T) {
		limiter := NewSlidingWindowLimiter(1, time.Minute)
		t.Cleanup(limiter.Close)

		require.True(t, limiter.Allow("10.0.0.1", "audits").Allowed)
		require.False(t, limiter.Allow("10.0.0.1", "audits").Allowed)

		// other identity and other route still have quota
		require.True(t, limiter.Allow("10.0.0.2", "audits").Allowed)
		require.True(t, limiter.Allow("10.0.0.1", "stream").Allowed)
	})

	t.Run("window_slides", func(t *testing.T) {
		limiter := NewSlidingWindowLimiter(2, time.Minute)
		t.Cleanup(limiter.Close)

		current := time.Now()
		limiter.now = func() time.Time { return current }

		require.True(t, limiter.Allow("id", "r").Allowed)
		require.True(t, limiter.Allow("id", "r").Allowed)
		require.False(t, limiter.Allow("id", "r").Allowed)

		// after the window passes, quota is restored
		current = current.Add(time.Minute + time.Second)
		d := limiter.Allow("id", "r")
		require.True(t, d.Allowed)
		require.Equal(t, 1, d.Remaining)
	})

	t.Run("reset_at_tracks_oldest_hit", func(t *testing.T) {
		limiter := NewSlidingWindowLimiter(1, time.Minute)
		t.Cleanup(limiter.Close)

		start := time.Now()
		limiter.now = func() time.Time { return start }

		first := limiter.Allow("id", "r")
		require.True(t, first.Allowed)

		rejected := limiter.Allow("id", "r")
		require.False(t, rejected.Allowed)
		require.Equal(t, start.Add(time.Minute), rejected.ResetAt)
	})

	t.Run("sweep_removes_stale_buckets", func(t *testing.T) {
		limiter := NewSlidingWindowLimiter(1, time.Minute)
		t.Cleanup(limiter.Close)

		current := time.Now()
		limiter.now = func() time.Time { return current }

		limiter.Allow("id", "r")
		current = current.Add(2 * time.Minute)
		limiter.sweep()

		limiter.mu.Lock()
		defer limiter.mu.Unlock()
		require.Empty(t, limiter.buckets)
	})

	t.Run("close_stops_sweeper", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		limiter := NewSlidingWindowLimiter(1, 10*time.Millisecond)
		limiter.Allow("id", "r")
		limiter.Close()
	})
}

func TestNoopLimiter(t *testing.T) {
	limiter := NoopLimiter{}
	defer limiter.Close()

	for i := 0; i < 100; i++ {
		require.True(t, limiter.Allow("id", "r").Allowed)
	}
}
