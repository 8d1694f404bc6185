package gateway

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// fallbackClientKey groups requests with no forwarded-for header under one
// bucket rather than letting them bypass the limiter.
const fallbackClientKey = "unknown"

type windowEntry struct {
	count   int
	resetAt time.Time
}

// fixedWindowLimiter is a process-local fixed-window counter keyed by client
// identity. Entries are never evicted; restart survivability and growth are
// known trade-offs of keeping it in memory.
type fixedWindowLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	entries map[string]*windowEntry
}

func newFixedWindowLimiter(limit int, window time.Duration, now func() time.Time) *fixedWindowLimiter {
	if now == nil {
		now = time.Now
	}
	return &fixedWindowLimiter{
		limit:   limit,
		window:  window,
		now:     now,
		entries: make(map[string]*windowEntry),
	}
}

// Allow records a request for the key and reports whether it is within the
// window cap. An expired window resets the count to one and extends the
// window.
func (l *fixedWindowLimiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok || now.After(entry.resetAt) {
		l.entries[key] = &windowEntry{count: 1, resetAt: now.Add(l.window)}
		return true
	}
	if entry.count >= l.limit {
		return false
	}
	entry.count++
	return true
}

// clientKey derives the rate-limit key from the first forwarded-for address.
// The header is only split, never resolved, so the cost is paid before any
// body parsing.
func clientKey(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" {
		return fallbackClientKey
	}
	first, _, _ := strings.Cut(forwarded, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return fallbackClientKey
	}
	return first
}
