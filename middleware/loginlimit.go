package middleware

import (
	"sync"
	"time"
)

// LoginLimiter tracks failed login attempts per client address inside a
// sliding window. Reaching the threshold locks the address for a fixed
// duration; a successful login clears its record. State is process-local
// and resets on restart.
type LoginLimiter struct {
	mu       sync.Mutex
	failures map[string][]time.Time
	locked   map[string]time.Time
	limit    int
	window   time.Duration
	lockout  time.Duration
	now      func() time.Time
}

func NewLoginLimiter(limit int, window, lockout time.Duration) *LoginLimiter {
	return &LoginLimiter{
		failures: make(map[string][]time.Time),
		locked:   make(map[string]time.Time),
		limit:    limit,
		window:   window,
		lockout:  lockout,
		now:      time.Now,
	}
}

// Allow reports whether a login attempt from addr may proceed to password
// verification.
func (l *LoginLimiter) Allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if until, ok := l.locked[addr]; ok {
		if now.Before(until) {
			return false
		}
		delete(l.locked, addr)
		delete(l.failures, addr)
	}
	return true
}

// RecordFailure registers a failed attempt. Crossing the threshold within
// the window locks the address.
func (l *LoginLimiter) RecordFailure(addr string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	failures := l.failures[addr]
	i := 0
	for ; i < len(failures); i++ {
		if failures[i].After(cutoff) {
			break
		}
	}
	failures = append(failures[i:], now)
	l.failures[addr] = failures

	if len(failures) >= l.limit {
		l.locked[addr] = now.Add(l.lockout)
	}
}

// RecordSuccess clears the failure record for addr.
func (l *LoginLimiter) RecordSuccess(addr string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.failures, addr)
	delete(l.locked, addr)
}
