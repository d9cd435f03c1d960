package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter tracks request times per client IP in a sliding window
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

const rateLimitCleanupInterval = 5 * time.Minute

// NewRateLimiter creates a rate limiter whose cleanup loop runs until ctx is done
func NewRateLimiter(ctx context.Context, limit int, window time.Duration) *RateLimiter {
	rl := newRateLimiter(limit, window)
	go rl.cleanupLoop(ctx, rateLimitCleanupInterval)
	return rl
}

func newRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow records a request from ip and reports whether it is within the limit
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	recent := rl.recent(ip, now.Add(-rl.window))

	if len(recent) >= rl.limit {
		rl.requests[ip] = recent
		return false
	}

	rl.requests[ip] = append(recent, now)
	return true
}

// recent returns the requests of ip made after cutoff. Caller holds mu.
func (rl *RateLimiter) recent(ip string, cutoff time.Time) []time.Time {
	requests := rl.requests[ip]
	kept := requests[:0]
	for _, t := range requests {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// cleanupLoop periodically drops idle IPs to bound memory
func (rl *RateLimiter) cleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.window)
	for ip := range rl.requests {
		if len(rl.recent(ip, cutoff)) == 0 {
			delete(rl.requests, ip)
		}
	}
}

// Middleware rejects requests over the limit with 429
func (rl *RateLimiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r)

		if !rl.Allow(ip) {
			slog.Warn("rate limit exceeded",
				"ip", ip,
				"path", r.URL.Path,
			)
			http.Error(w, "Too many requests. Please try again later.", http.StatusTooManyRequests)
			return
		}

		next(w, r)
	}
}

// RateLimitAuth creates middleware for auth endpoints
// Limits: 10 requests per 15 minutes per IP
func RateLimitAuth(ctx context.Context) func(http.HandlerFunc) http.HandlerFunc {
	return NewRateLimiter(ctx, 10, 15*time.Minute).Middleware
}

// getClientIP extracts real client IP from request
func getClientIP(r *http.Request) string {
	// Proxy / load balancer: first entry is the client
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fallback to RemoteAddr without port
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}

	return ip
}
