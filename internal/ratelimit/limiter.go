// Package ratelimit throttles questions arriving through network adapters.
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/finqa/internal/core/domain"
)

const (
	// DefaultPerMinute is the sustained question rate.
	DefaultPerMinute = 30

	// DefaultBurst is the number of questions accepted back to back.
	DefaultBurst = 5
)

// Limiter is a token bucket that rejects, never queues, when empty.
// A nil *Limiter allows everything.
type Limiter struct {
	mu       sync.Mutex
	bucket   *rate.Limiter
	rejected int
}

// New creates a limiter refilling perMinute tokens a minute with room
// for burst. A non-positive perMinute disables limiting.
func New(perMinute float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Limit(perMinute / 60)
	}
	return &Limiter{bucket: rate.NewLimiter(limit, burst)}
}

// NewDefault creates a limiter with the default rate and burst.
func NewDefault() *Limiter {
	return New(DefaultPerMinute, DefaultBurst)
}

// Allow takes a token or fails with domain.ErrRateLimited.
func (l *Limiter) Allow() error {
	if l == nil {
		return nil
	}
	if l.bucket.Allow() {
		return nil
	}

	l.mu.Lock()
	l.rejected++
	l.mu.Unlock()
	return domain.ErrRateLimited
}

// Rejected returns how many calls were turned away.
func (l *Limiter) Rejected() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rejected
}
