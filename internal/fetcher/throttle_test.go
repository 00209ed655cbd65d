package fetcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordSleeps swaps the throttle's sleeper for one that records
// durations without waiting.
func recordSleeps(t *Throttle) *[]time.Duration {
	var slept []time.Duration
	t.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return &slept
}

func TestThrottle_FirstRequestNoWait(t *testing.T) {
	throttle := NewThrottle(time.Second)
	slept := recordSleeps(throttle)

	err := throttle.Wait(context.Background(), "https://docs.example.com/a")

	require.NoError(t, err)
	assert.Empty(t, *slept)
}

func TestThrottle_SameHostWaits(t *testing.T) {
	throttle := NewThrottle(time.Second)
	slept := recordSleeps(throttle)

	require.NoError(t, throttle.Wait(context.Background(), "https://docs.example.com/a"))
	require.NoError(t, throttle.Wait(context.Background(), "https://docs.example.com/b"))

	require.Len(t, *slept, 1)
	assert.Greater(t, (*slept)[0], 900*time.Millisecond)
	assert.LessOrEqual(t, (*slept)[0], time.Second)
}

func TestThrottle_DifferentHostsIndependent(t *testing.T) {
	throttle := NewThrottle(time.Second)
	slept := recordSleeps(throttle)

	require.NoError(t, throttle.Wait(context.Background(), "https://a.example.com/"))
	require.NoError(t, throttle.Wait(context.Background(), "https://b.example.com/"))

	assert.Empty(t, *slept)
}

func TestThrottle_ZeroDelayDisabled(t *testing.T) {
	throttle := NewThrottle(0)
	slept := recordSleeps(throttle)

	for range 5 {
		require.NoError(t, throttle.Wait(context.Background(), "https://docs.example.com/"))
	}

	assert.Empty(t, *slept)
}

func TestThrottle_ContextCancelled(t *testing.T) {
	throttle := NewThrottle(10 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, throttle.Wait(ctx, "https://docs.example.com/a"))
	err := throttle.Wait(ctx, "https://docs.example.com/b")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestThrottle_RealDelayBetweenRequests(t *testing.T) {
	delay := 30 * time.Millisecond
	throttle := NewThrottle(delay)

	start := time.Now()
	for range 3 {
		require.NoError(t, throttle.Wait(context.Background(), "https://docs.example.com/"))
	}
	elapsed := time.Since(start)

	// Two gaps between three requests
	assert.GreaterOrEqual(t, elapsed, 2*delay)
}

func TestThrottle_Delay(t *testing.T) {
	assert.Equal(t, 2*time.Second, NewThrottle(2*time.Second).Delay())
}

func TestThrottle_SetDelay(t *testing.T) {
	throttle := NewThrottle(time.Second)
	slept := recordSleeps(throttle)

	throttle.SetDelay(5 * time.Second)
	assert.Equal(t, 5*time.Second, throttle.Delay())

	require.NoError(t, throttle.Wait(context.Background(), "https://docs.example.com/a"))
	require.NoError(t, throttle.Wait(context.Background(), "https://docs.example.com/b"))

	require.Len(t, *slept, 1)
	assert.Greater(t, (*slept)[0], 4*time.Second)
}
