package middleware

import (
	"sync"
	"time"
)

const (
	invalidAuthLimit  = 5
	invalidAuthWindow = time.Minute
)

// InvalidAuthRateLimiter throttles repeated failed API-key attempts
// per source IP so key guessing against the storefront surface stays
// slow. Successful requests are never counted.
type InvalidAuthRateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string]*authAttempts
}

type authAttempts struct {
	count   int
	firstAt time.Time
}

func NewInvalidAuthRateLimiter() *InvalidAuthRateLimiter {
	rl := &InvalidAuthRateLimiter{
		limit:   invalidAuthLimit,
		window:  invalidAuthWindow,
		buckets: make(map[string]*authAttempts),
	}
	go rl.prune()
	return rl
}

// Allow reports whether ip may record another failed attempt in the
// current window.
func (r *InvalidAuthRateLimiter) Allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	b, ok := r.buckets[ip]
	if !ok || now.Sub(b.firstAt) > r.window {
		r.buckets[ip] = &authAttempts{count: 1, firstAt: now}
		return true
	}
	if b.count >= r.limit {
		return false
	}
	b.count++
	return true
}

func (r *InvalidAuthRateLimiter) prune() {
	ticker := time.NewTicker(5 * r.window)
	for range ticker.C {
		r.mu.Lock()
		now := time.Now()
		for ip, b := range r.buckets {
			if now.Sub(b.firstAt) > r.window {
				delete(r.buckets, ip)
			}
		}
		r.mu.Unlock()
	}
}
