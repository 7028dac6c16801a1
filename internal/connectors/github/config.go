package github

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com/"

// Options configures a Client.
type Options struct {
	// BaseURL overrides the API root, e.g. for GitHub Enterprise.
	// Default: https://api.github.com/
	BaseURL string

	// RequestsPerMinute is the request ceiling enforced by the limiter.
	// Negative disables spacing. Default: DefaultRequestsPerMinute
	RequestsPerMinute int

	// Timeout is the per-request HTTP timeout.
	// Default: DefaultTimeout
	Timeout time.Duration

	// MaxRetries bounds attempts for transient failures.
	// Default: MaxRetries
	MaxRetries int
}

// withDefaults fills unset fields.
func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.RequestsPerMinute == 0 {
		o.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = MaxRetries
	}
	return o
}

// parseBaseURL validates a base URL and ensures the trailing slash
// go-github requires.
func parseBaseURL(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: base url: %w", domain.ErrInvalidInput, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: base url %q must be http or https", domain.ErrInvalidInput, raw)
	}
	return u, nil
}
