// Package github implements the rate-limited GitHub API access layer.
//
// The Client satisfies [driven.AccountSource]. It searches accounts and
// fetches profiles, repository lists, commit lists and file contents.
//
// # Architecture
//
//   - Client: wraps go-github and converts API models to domain types
//   - RateLimiter: the single choke point spacing request starts
//   - fetch: the per-request retry state machine
//   - paginate: the shared pagination loop
//
// # Authentication
//
// A personal access token is optional. When supplied it is sent as a
// bearer token through an oauth2 static token source. Unauthenticated
// requests are limited to 60 per hour.
//
// # Rate Limiting
//
// Request starts are spaced by 60s / requests-per-minute using a token
// bucket with a burst of one. The limiter is shared and lock-protected,
// so concurrent callers still respect the ceiling.
//
// # Retries
//
// Each logical request runs a small state machine:
//
//  1. 403 with X-RateLimit-Remaining: 0 waits until X-RateLimit-Reset
//     (at least one second) and retries. Not counted as a failure.
//  2. 429 waits for Retry-After (60 seconds if absent) and retries.
//     Not counted as a failure.
//  3. Any other failure is retried with exponential backoff plus
//     sub-second jitter, up to MaxRetries attempts in total.
//  4. A 2xx body that cannot be decoded is not retried.
//
// Cases 3 (exhausted) and 4 surface as [domain.ErrUnavailable]. Callers
// treat that as "could not obtain data", never as "empty".
//
// # Pagination
//
// Lists are fetched with pages of min(100, max) items from page 1 and
// stop at max items, at a failed page, at an empty page, or at a page
// shorter than the page size. Results are truncated to max.
package github
