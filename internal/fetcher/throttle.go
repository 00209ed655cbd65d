package fetcher

import (
	"context"
	"sync"
	"time"

	"github.com/OW-Research/llmsgen/internal/utils"
)

// Throttle enforces a fixed minimum delay between consecutive requests
// to the same host. Fetching is sequential by design; the mutex
// protects the timestamp map and the adjustable delay.
type Throttle struct {
	mu       sync.Mutex
	delay    time.Duration
	lastSeen map[string]time.Time

	// sleep is swappable so tests don't wait in real time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewThrottle creates a throttle with the given minimum inter-request
// delay. A non-positive delay disables throttling.
func NewThrottle(delay time.Duration) *Throttle {
	return &Throttle{
		delay:    delay,
		lastSeen: make(map[string]time.Time),
		sleep:    sleepContext,
	}
}

// Wait blocks until at least the configured delay has passed since the
// previous request to the URL's host, or the context is cancelled.
func (t *Throttle) Wait(ctx context.Context, rawURL string) error {
	host := utils.GetHost(rawURL)

	t.mu.Lock()
	delay := t.delay
	if delay <= 0 {
		t.mu.Unlock()
		return nil
	}
	last, seen := t.lastSeen[host]
	now := time.Now()
	var wait time.Duration
	if seen {
		if elapsed := now.Sub(last); elapsed < delay {
			wait = delay - elapsed
		}
	}
	t.lastSeen[host] = now.Add(wait)
	t.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	return t.sleep(ctx, wait)
}

// Delay returns the configured minimum delay
func (t *Throttle) Delay() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.delay
}

// SetDelay replaces the minimum inter-request delay
func (t *Throttle) SetDelay(delay time.Duration) {
	t.mu.Lock()
	t.delay = delay
	t.mu.Unlock()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
