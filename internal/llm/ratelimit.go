package llm

import (
	"context"
	"sync"
	"time"

	"github.com/OW-Research/llmsgen/internal/domain"
)

// RateLimiter controls the rate of operations
type RateLimiter interface {
	Wait(ctx context.Context) error
	TryAcquire() bool
}

// TokenBucket implements a token bucket rate limiter
type TokenBucket struct {
	tokens     float64
	capacity   float64
	refillRate float64
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a new token bucket rate limiter
func NewTokenBucket(requestsPerMinute int, burstSize int) *TokenBucket {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if burstSize <= 0 {
		burstSize = 1
	}

	return &TokenBucket{
		tokens:     float64(burstSize),
		capacity:   float64(burstSize),
		refillRate: float64(requestsPerMinute) / 60.0,
		lastRefill: time.Now(),
	}
}

func (tb *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.tokens += elapsed * tb.refillRate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}
	tb.lastRefill = now
}

// Wait blocks until a token is available or context is cancelled
func (tb *TokenBucket) Wait(ctx context.Context) error {
	for {
		tb.mu.Lock()
		tb.refill()
		if tb.tokens >= 1.0 {
			tb.tokens--
			tb.mu.Unlock()
			return nil
		}
		// Time until one token refills
		wait := time.Duration((1.0 - tb.tokens) / tb.refillRate * float64(time.Second))
		tb.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// TryAcquire attempts to take a token without blocking
func (tb *TokenBucket) TryAcquire() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	if tb.tokens >= 1.0 {
		tb.tokens--
		return true
	}
	return false
}

// rateLimitedProvider wraps a provider so each request waits for the
// limiter before going out.
type rateLimitedProvider struct {
	inner   domain.LLMProvider
	limiter RateLimiter
}

// WithRateLimit wraps a provider with a rate limiter
func WithRateLimit(inner domain.LLMProvider, limiter RateLimiter) domain.LLMProvider {
	return &rateLimitedProvider{inner: inner, limiter: limiter}
}

func (p *rateLimitedProvider) Name() string {
	return p.inner.Name()
}

func (p *rateLimitedProvider) Complete(ctx context.Context, req *domain.LLMRequest) (*domain.LLMResponse, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return p.inner.Complete(ctx, req)
}

func (p *rateLimitedProvider) Close() error {
	return p.inner.Close()
}
