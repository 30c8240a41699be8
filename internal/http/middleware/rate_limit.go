package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"jobpack/internal/auth"
	"jobpack/internal/export"
	"jobpack/internal/logger"
)

// RateLimiter counts requests per key in fixed windows.
type RateLimiter struct {
	mu        sync.Mutex
	counts    map[string]int
	lastReset time.Time
	rate      int
	window    time.Duration
	now       func() time.Time
}

func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		counts:    make(map[string]int),
		lastReset: time.Now(),
		rate:      rate,
		window:    window,
		now:       time.Now,
	}
}

// Allow records a request for key and reports whether it fits in the window.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now := l.now(); now.Sub(l.lastReset) > l.window {
		l.counts = make(map[string]int)
		l.lastReset = now
	}
	if l.counts[key] >= l.rate {
		return false
	}
	l.counts[key]++
	return true
}

// RateLimit limits requests per authenticated user, falling back to the
// client host for anonymous callers. A non-positive rate disables it.
func RateLimit(base *slog.Logger, rate int, window time.Duration) func(http.Handler) http.Handler {
	if rate <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := NewRateLimiter(rate, window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ip:" + clientHost(r.RemoteAddr)
			if uid, ok := auth.UserIDFromContext(r.Context()); ok {
				key = "user:" + strconv.FormatUint(uid, 10)
			}
			if !limiter.Allow(key) {
				logger.FromContext(r.Context(), base).Warn("rate limit exceeded", "key", key)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(export.ErrRateLimited())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientHost drops the port so every connection from one address shares a window.
func clientHost(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
