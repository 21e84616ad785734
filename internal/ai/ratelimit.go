package ai

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// AdaptiveLimiter adjusts the allowed generation rate from outcomes:
// it creeps up on success and halves on provider errors. The free
// providers the bot runs against throttle aggressively and silently.
type AdaptiveLimiter struct {
	mu        sync.RWMutex
	limiter   *rate.Limiter
	minLimit  rate.Limit
	maxLimit  rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	lastError time.Time
}

// NewAdaptiveLimiter creates a limiter starting at initial requests per
// second, bounded by [min, max].
func NewAdaptiveLimiter(initial, min, max rate.Limit, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	if initial <= 0 {
		initial = rate.Limit(0.2)
	}
	if min <= 0 {
		min = rate.Limit(0.05)
	}
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, 1),
		minLimit: min,
		maxLimit: max,
		stepUp:   stepUp,
		stepDown: stepDown,
	}
}

// DefaultGenerateLimiter returns the shipped limiter for Generate calls:
// one call per 5s steady state, backing off to one per 30s under errors.
func DefaultGenerateLimiter() *AdaptiveLimiter {
	return NewAdaptiveLimiter(0.2, 1.0/30, 1, 0.02, 0.5)
}

// Wait blocks until a token is available or the context is canceled.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return a.limiter.Wait(ctx)
}

// Success nudges the rate up after a successful call, once the last error
// is comfortably behind.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastError) > 30*time.Second {
		a.adjust(a.limiter.Limit() + a.stepUp)
	}
}

// Backoff reduces the rate after a provider error.
func (a *AdaptiveLimiter) Backoff() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = time.Now()
	a.adjust(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

// CurrentLimit returns the current requests per second.
func (a *AdaptiveLimiter) CurrentLimit() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return float64(a.limiter.Limit())
}

func (a *AdaptiveLimiter) adjust(l rate.Limit) {
	if l < a.minLimit {
		l = a.minLimit
	}
	if a.maxLimit > 0 && l > a.maxLimit {
		l = a.maxLimit
	}
	a.limiter.SetLimit(l)
}

// LimitedProvider wraps a Provider behind an AdaptiveLimiter.
type LimitedProvider struct {
	inner   Provider
	limiter *AdaptiveLimiter
	timeout time.Duration
}

// NewLimitedProvider wraps inner with the limiter. A nil limiter gets the
// default.
func NewLimitedProvider(inner Provider, limiter *AdaptiveLimiter) *LimitedProvider {
	if limiter == nil {
		limiter = DefaultGenerateLimiter()
	}
	return &LimitedProvider{inner: inner, limiter: limiter, timeout: 60 * time.Second}
}

// Generate waits for rate-limit clearance, then delegates. Outcomes feed
// back into the limiter.
func (p *LimitedProvider) Generate(messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("generate rate limit: %w", err)
	}
	reply, err := p.inner.Generate(messages)
	if err != nil {
		p.limiter.Backoff()
		return "", err
	}
	p.limiter.Success()
	return reply, nil
}
