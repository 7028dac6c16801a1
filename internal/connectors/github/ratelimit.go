package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultRequestsPerMinute is the default request ceiling.
	DefaultRequestsPerMinute = 30

	// HeaderRateLimit is the rate limit header.
	HeaderRateLimit = "X-RateLimit-Limit"

	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "X-RateLimit-Remaining"

	// HeaderRateReset is the reset timestamp header (Unix seconds).
	HeaderRateReset = "X-RateLimit-Reset"

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter is the single choke point every outbound request passes
// through. It spaces request starts by 60s / requestsPerMinute and records
// the quota reported by the API. It is safe for concurrent use.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int       // From API header, -1 until seen
	limit     int       // From API header
	resetTime time.Time // From API header
	interval  time.Duration
	bucket    *rate.Limiter
}

// NewRateLimiter creates a limiter allowing requestsPerMinute request starts
// per minute. A non-positive value disables spacing.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	r := &RateLimiter{remaining: -1}
	if requestsPerMinute <= 0 {
		r.bucket = rate.NewLimiter(rate.Inf, 1)
		return r
	}
	r.interval = time.Minute / time.Duration(requestsPerMinute)
	r.bucket = rate.NewLimiter(rate.Every(r.interval), 1)
	return r
}

// Interval returns the minimum spacing between request starts.
func (r *RateLimiter) Interval() time.Duration {
	return r.interval
}

// Wait blocks until the next request may start.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.bucket.Wait(ctx)
}

// UpdateFromResponse updates rate limit state from response headers.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if remaining := resp.Header.Get(HeaderRateRemaining); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			r.remaining = val
		}
	}

	if limit := resp.Header.Get(HeaderRateLimit); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			r.limit = val
		}
	}

	if reset := resp.Header.Get(HeaderRateReset); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			r.resetTime = time.Unix(val, 0)
		}
	}
}

// Remaining returns the last remaining quota reported, or -1.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Limit returns the rate limit.
func (r *RateLimiter) Limit() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit
}

// ResetTime returns the rate limit reset time.
func (r *RateLimiter) ResetTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetTime
}

// quotaExhausted reports whether resp is a primary rate limit response
// and when the quota resets.
func quotaExhausted(resp *http.Response) (time.Time, bool) {
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		return time.Time{}, false
	}
	if resp.Header.Get(HeaderRateRemaining) != "0" {
		return time.Time{}, false
	}
	var reset time.Time
	if val, err := strconv.ParseInt(resp.Header.Get(HeaderRateReset), 10, 64); err == nil {
		reset = time.Unix(val, 0)
	}
	return reset, true
}

// retryAfter parses the Retry-After header, falling back to def.
func retryAfter(resp *http.Response, def time.Duration) time.Duration {
	if resp == nil {
		return def
	}
	if seconds, err := strconv.Atoi(resp.Header.Get(HeaderRetryAfter)); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	return def
}
