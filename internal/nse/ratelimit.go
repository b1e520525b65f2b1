package nse

import (
	"context"
	"sync"
	"time"
)

// RateLimiter implements token bucket rate limiting for NSE requests. The
// exchange silently drops sessions that hammer its API, so every outbound
// call waits for a token first.
type RateLimiter struct {
	tokens         int
	maxTokens      int
	refillRate     time.Duration
	lastRefillTime time.Time
	mu             sync.Mutex
}

// NewRateLimiter creates a limiter that allows roughly requestsPerSec calls,
// with a burst of maxTokens.
func NewRateLimiter(maxTokens int, requestsPerSec float64) *RateLimiter {
	if maxTokens <= 0 {
		maxTokens = 1
	}
	if requestsPerSec <= 0 {
		requestsPerSec = 1
	}
	return &RateLimiter{
		tokens:         maxTokens,
		maxTokens:      maxTokens,
		refillRate:     time.Duration(float64(time.Second) / requestsPerSec),
		lastRefillTime: time.Now(),
	}
}

// Wait blocks until a token is available or the context is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if rl.tryAcquire() {
				return nil
			}
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (rl *RateLimiter) tryAcquire() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(rl.lastRefillTime)
	tokensToAdd := int(elapsed / rl.refillRate)
	if tokensToAdd > 0 {
		rl.tokens += tokensToAdd
		if rl.tokens > rl.maxTokens {
			rl.tokens = rl.maxTokens
		}
		rl.lastRefillTime = now
	}

	if rl.tokens > 0 {
		rl.tokens--
		return true
	}
	return false
}
