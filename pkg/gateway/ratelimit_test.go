package gateway

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestFixedWindowLimiter_CapsWithinWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := newFixedWindowLimiter(3, time.Minute, func() time.Time { return now })

	for i := 0; i < 3; i++ {
		if !limiter.Allow("1.2.3.4") {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatalf("4th request allowed, want denied")
	}

	// A different client has its own bucket.
	if !limiter.Allow("5.6.7.8") {
		t.Fatalf("other client denied")
	}
}

func TestFixedWindowLimiter_WindowExpiryResets(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := newFixedWindowLimiter(3, time.Minute, func() time.Time { return now })

	for i := 0; i < 3; i++ {
		limiter.Allow("1.2.3.4")
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatalf("over-cap request allowed")
	}

	now = now.Add(time.Minute + time.Second)
	if !limiter.Allow("1.2.3.4") {
		t.Fatalf("request after window expiry denied")
	}
	// The reset starts a fresh count, not a carried-over one.
	if !limiter.Allow("1.2.3.4") || !limiter.Allow("1.2.3.4") {
		t.Fatalf("fresh window should admit the full cap")
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatalf("fresh window over-cap request allowed")
	}
}

func TestClientKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		forwarded string
		want      string
	}{
		{"no header", "", fallbackClientKey},
		{"single address", "203.0.113.7", "203.0.113.7"},
		{"proxy chain keeps first", "203.0.113.7, 10.0.0.1, 10.0.0.2", "203.0.113.7"},
		{"whitespace trimmed", "  203.0.113.7  ,10.0.0.1", "203.0.113.7"},
		{"empty first entry", " , 10.0.0.1", fallbackClientKey},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("POST", "/api/contact", nil)
		if tt.forwarded != "" {
			r.Header.Set("X-Forwarded-For", tt.forwarded)
		}
		if got := clientKey(r); got != tt.want {
			t.Errorf("%s: clientKey = %q, want %q", tt.name, got, tt.want)
		}
	}
}
