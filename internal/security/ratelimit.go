package security

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter caps requests per client address to a fixed number per
// window. Buckets refill whole windows at a time; a client that burns
// its allowance waits until the window rolls over.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
}

type bucket struct {
	remaining int
	resetAt   time.Time
}

// NewRateLimiter allows limit requests per window per client address.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
	}
}

// Allow reports whether a request from addr fits under the limit and
// consumes one slot if it does.
func (rl *RateLimiter) Allow(addr string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[addr]
	if !ok || now.After(b.resetAt) {
		rl.prune(now)
		b = &bucket{remaining: rl.limit, resetAt: now.Add(rl.window)}
		rl.buckets[addr] = b
	}

	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

// prune drops buckets whose window has passed. Called under the lock
// when a new bucket is created, so the map stays bounded by the number
// of addresses active in the current window.
func (rl *RateLimiter) prune(now time.Time) {
	for addr, b := range rl.buckets {
		if now.After(b.resetAt) {
			delete(rl.buckets, addr)
		}
	}
}

// GetClientIP extracts the originating client address. Honors
// X-Forwarded-For (first hop) and X-Real-IP set by reverse proxies
// before falling back to the socket address.
func GetClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
