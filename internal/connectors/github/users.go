package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
)

// GetAccount fetches a public profile.
func (c *Client) GetAccount(ctx context.Context, login string) (*domain.Account, error) {
	user, err := fetch(ctx, c, "get user "+login,
		func(ctx context.Context) (*gh.User, *gh.Response, error) {
			return c.gh.Users.Get(ctx, login)
		})
	if err != nil {
		return nil, err
	}
	if user.GetLogin() == "" {
		return nil, fmt.Errorf("get user %s: %w: %w", login, domain.ErrUnavailable, ErrMalformedResponse)
	}
	return toAccount(user), nil
}

func toAccount(u *gh.User) *domain.Account {
	return &domain.Account{
		Login:    u.GetLogin(),
		Name:     u.GetName(),
		Location: u.GetLocation(),
		Bio:      u.GetBio(),
		Blog:     u.GetBlog(),
		Email:    u.GetEmail(),
	}
}
