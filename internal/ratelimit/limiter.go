// Package ratelimit gates how often a single user may sync.
package ratelimit

import (
	"sync"
	"time"
)

// DefaultCooldown is the minimum spacing between accepted syncs for one
// user when no window is configured.
const DefaultCooldown = 500 * time.Millisecond

// Limiter admits at most one call per user per cooldown window. The
// "last accepted" marker advances on every admission, whether or not
// downstream processing succeeds; the limiter gates call frequency
// only. Keys are never evicted for the process lifetime.
type Limiter struct {
	mu       sync.Mutex
	cooldown time.Duration
	last     map[string]time.Time
	now      func() time.Time
}

// NewLimiter creates a limiter with the given cooldown window.
// A non-positive cooldown falls back to DefaultCooldown.
func NewLimiter(cooldown time.Duration) *Limiter {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Limiter{
		cooldown: cooldown,
		last:     make(map[string]time.Time),
		now:      time.Now,
	}
}

// WithClock overrides the time source. Tests use this to step through
// the cooldown window deterministically.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow reports whether userID may sync now, recording the admission
// timestamp when it does.
func (l *Limiter) Allow(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if last, ok := l.last[userID]; ok && now.Sub(last) < l.cooldown {
		return false
	}
	l.last[userID] = now
	return true
}
