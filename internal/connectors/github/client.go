package github

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/ghharvest/internal/core/ports/driven"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxPerPage is the largest page size the API accepts.
	MaxPerPage = 100
)

// Ensure Client implements the interface.
var _ driven.AccountSource = (*Client)(nil)

// Client wraps the go-github client with rate limiting and retries.
// Every request goes through fetch, which applies the limiter and the
// retry state machine.
type Client struct {
	gh         *gh.Client
	limiter    *RateLimiter
	maxRetries int

	// Injectable for tests.
	sleep  func(ctx context.Context, d time.Duration) error
	now    func() time.Time
	jitter func() time.Duration

	statsMu sync.Mutex
	stats   Stats
}

// NewClient creates a GitHub API client. The token provider may be nil
// for unauthenticated access.
func NewClient(ctx context.Context, tokenProvider driven.TokenProvider, opts Options) (*Client, error) {
	opts = opts.withDefaults()

	baseURL, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	token := ""
	if tokenProvider != nil {
		token, err = tokenProvider.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("get token: %w", err)
		}
	}

	httpClient := &http.Client{Timeout: opts.Timeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = opts.Timeout
	}

	client := gh.NewClient(httpClient)
	client.BaseURL = baseURL
	client.UserAgent = "ghharvest"

	return &Client{
		gh:         client,
		limiter:    NewRateLimiter(opts.RequestsPerMinute),
		maxRetries: opts.MaxRetries,
		sleep:      sleepContext,
		now:        time.Now,
		jitter:     subSecondJitter,
	}, nil
}

// RateLimiter returns the rate limiter, which holds the last quota the
// API reported.
func (c *Client) RateLimiter() *RateLimiter {
	return c.limiter
}

// Stats returns a snapshot of the request counters.
func (c *Client) Stats() Stats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats
}

func (c *Client) record(fn func(*Stats)) {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	fn(&c.stats)
}
