package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
)

// encodeQuery percent-encodes a search query (spaces as %20).
func encodeQuery(query string) string {
	return strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
}

// SearchAccounts returns up to max account logins matching query.
// The query is encoded once and the same encoded form is sent for
// every page.
func (c *Client) SearchAccounts(ctx context.Context, query string, max int) ([]string, error) {
	encoded := encodeQuery(query)

	users, err := paginate(ctx, "search users", max,
		func(ctx context.Context, page, perPage int) ([]*gh.User, error) {
			endpoint := fmt.Sprintf("search/users?q=%s&page=%d&per_page=%d", encoded, page, perPage)
			req, err := c.gh.NewRequest(http.MethodGet, endpoint, nil)
			if err != nil {
				return nil, fmt.Errorf("search users: %w", err)
			}

			result, err := fetch(ctx, c, "search users",
				func(ctx context.Context) (*gh.UsersSearchResult, *gh.Response, error) {
					result := new(gh.UsersSearchResult)
					resp, err := c.gh.Do(ctx, req, result)
					return result, resp, err
				})
			if err != nil {
				return nil, err
			}
			// A body without "items" is an error payload, not an empty page.
			if result.Users == nil {
				return nil, fmt.Errorf("search users: %w: %w", domain.ErrUnavailable, ErrMalformedResponse)
			}
			return result.Users, nil
		})

	logins := make([]string, 0, len(users))
	for _, u := range users {
		if login := u.GetLogin(); login != "" {
			logins = append(logins, login)
		}
	}
	return logins, err
}
