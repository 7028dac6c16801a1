package github

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
	"github.com/custodia-labs/ghharvest/internal/logger"
)

const (
	// MaxRetries is the maximum number of attempts for transient errors.
	MaxRetries = 3

	// RetryDelay is the base of the exponential backoff.
	RetryDelay = time.Second

	// DefaultSecondaryWait is used when a 429 carries no Retry-After.
	DefaultSecondaryWait = 60 * time.Second

	// MinQuotaWait is the shortest wait for a quota reset.
	MinQuotaWait = time.Second
)

// Stats counts what the retry state machine did. Quota and secondary
// waits are scheduled pauses and never count as failed attempts.
type Stats struct {
	Requests       int
	FailedAttempts int
	QuotaWaits     int
	SecondaryWaits int
	Malformed      int
	Abandoned      int
}

// outcome classifies a failed request.
type outcome int

const (
	outcomeTransient outcome = iota
	outcomeQuota
	outcomeSecondary
	outcomeMalformed
)

// classify decides how the state machine reacts to a failed request.
func classify(resp *gh.Response, err error) (outcome, time.Time, time.Duration) {
	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return outcomeQuota, rateLimitErr.Rate.Reset.Time, 0
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		if abuseErr.RetryAfter != nil {
			return outcomeSecondary, time.Time{}, *abuseErr.RetryAfter
		}
		return outcomeSecondary, time.Time{}, retryAfter(abuseErr.Response, DefaultSecondaryWait)
	}

	if resp == nil || resp.Response == nil {
		return outcomeTransient, time.Time{}, 0
	}

	if reset, ok := quotaExhausted(resp.Response); ok {
		return outcomeQuota, reset, 0
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return outcomeSecondary, time.Time{}, retryAfter(resp.Response, DefaultSecondaryWait)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return outcomeMalformed, time.Time{}, 0
	}
	return outcomeTransient, time.Time{}, 0
}

// fetch runs call through the rate limiter and the retry state machine.
//
// Quota exhaustion (403 with no remaining quota) waits until the reported
// reset and 429 waits for Retry-After; neither counts as a failure.
// Other failures are retried up to MaxRetries attempts with exponential
// backoff and jitter. Exhausted retries and malformed bodies yield
// domain.ErrUnavailable. A 401 is never retried and yields
// domain.ErrNotAuthenticated.
func fetch[T any](
	ctx context.Context, c *Client, op string,
	call func(ctx context.Context) (T, *gh.Response, error),
) (T, error) {
	var zero T
	failures := 0

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return zero, fmt.Errorf("rate limit wait: %w", err)
		}

		c.record(func(s *Stats) { s.Requests++ })
		v, resp, err := call(ctx)
		if resp != nil {
			c.limiter.UpdateFromResponse(resp.Response)
		}
		if err == nil {
			return v, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}

		kind, reset, wait := classify(resp, err)
		switch kind {
		case outcomeQuota:
			wait = max(reset.Sub(c.now()), MinQuotaWait)
			c.record(func(s *Stats) { s.QuotaWaits++ })
			logger.Warn("%s: rate limit exceeded, waiting %s", op, wait.Round(time.Second))

		case outcomeSecondary:
			c.record(func(s *Stats) { s.SecondaryWaits++ })
			logger.Warn("%s: secondary rate limit hit, waiting %s", op, wait.Round(time.Second))

		case outcomeMalformed:
			c.record(func(s *Stats) { s.Malformed++ })
			logger.Warn("%s: unexpected response: %v", op, err)
			return zero, fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable, ErrMalformedResponse)

		default:
			if wrapped := wrapError(err, op); IsUnauthorized(wrapped) {
				logger.Warn("%s: token rejected: %v", op, err)
				return zero, fmt.Errorf("%s: %w: %w", op, domain.ErrNotAuthenticated, wrapped)
			}
			failures++
			c.record(func(s *Stats) { s.FailedAttempts++ })
			if failures >= c.maxRetries {
				c.record(func(s *Stats) { s.Abandoned++ })
				logger.Warn("%s: request failed after %d attempts: %v", op, failures, err)
				return zero, fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable,
					errors.Join(ErrRetriesExhausted, wrapError(err, op)))
			}
			wait = backoff(failures, c.jitter())
			logger.Debug("%s: request failed, retrying in %s (%d/%d): %v",
				op, wait.Round(time.Millisecond), failures, c.maxRetries, err)
		}

		if err := c.sleep(ctx, wait); err != nil {
			return zero, err
		}
	}
}

// backoff returns RetryDelay * 2^failures plus jitter.
func backoff(failures int, jitter time.Duration) time.Duration {
	return RetryDelay*time.Duration(1<<failures) + jitter
}

// subSecondJitter returns a random duration below one second.
func subSecondJitter() time.Duration {
	return rand.N(time.Second)
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
