// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// attempts is the sliding window of hits recorded for one bucket.
type attempts struct {
	mu   sync.Mutex
	hits []time.Time
}

// prune drops hits at or before cutoff and reports how many remain.
func (a *attempts) prune(cutoff time.Time) int {
	kept := a.hits[:0]
	for _, ts := range a.hits {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	a.hits = kept
	return len(kept)
}

// RateLimiter limits requests per client IP over a sliding window.
// Buckets are keyed by scope and IP, so routes wrapped with different
// scopes never consume each other's allowance.
type RateLimiter struct {
	mu      sync.RWMutex
	clients map[string]*attempts
	limit   int
	window  time.Duration
	now     func() time.Time
	stopCh  chan struct{}
}

// NewRateLimiter allows limit requests per window for each bucket. Idle
// buckets are swept every five minutes until Stop is called.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*attempts),
		limit:   limit,
		window:  window,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	go rl.sweep(5 * time.Minute)
	return rl
}

// Stop terminates the background sweep.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *RateLimiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) bucket(key string) *attempts {
	rl.mu.RLock()
	a, ok := rl.clients[key]
	rl.mu.RUnlock()
	if ok {
		return a
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if a, ok = rl.clients[key]; !ok {
		a = &attempts{}
		rl.clients[key] = a
	}
	return a
}

// allow records a hit for key unless its window is already full.
func (rl *RateLimiter) allow(key string) bool {
	now := rl.now()
	a := rl.bucket(key)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.prune(now.Add(-rl.window)) >= rl.limit {
		return false
	}
	a.hits = append(a.hits, now)
	return true
}

// cleanup removes buckets with no hits inside the window.
func (rl *RateLimiter) cleanup() {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, a := range rl.clients {
		a.mu.Lock()
		empty := a.prune(cutoff) == 0
		a.mu.Unlock()
		if empty {
			delete(rl.clients, key)
		}
	}
}

// Middleware limits by client IP in the default scope.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return rl.Scope("")(next)
}

// Scope returns a middleware whose buckets are separate from every other
// scope on the same limiter.
func (rl *RateLimiter) Scope(name string) func(http.Handler) http.Handler {
	retry := strconv.Itoa(int(rl.window.Seconds()))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.allow(name + "|" + clientIP(r)) {
				w.Header().Set("Retry-After", retry)
				writeError(w, http.StatusTooManyRequests, "rate_limited", "Too many attempts. Please wait a moment and try again.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the leftmost X-Forwarded-For entry, then X-Real-IP,
// then the connection's remote address without its port.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
