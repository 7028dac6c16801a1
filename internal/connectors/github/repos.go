package github

import (
	"context"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
)

// ListRepositories lists up to max repositories of login, most recently
// updated first. A repository without owner information is attributed
// to login.
func (c *Client) ListRepositories(ctx context.Context, login string, max int) ([]domain.Repository, error) {
	repos, err := paginate(ctx, "list repos "+login, max,
		func(ctx context.Context, page, perPage int) ([]*gh.Repository, error) {
			opts := &gh.RepositoryListByUserOptions{
				Sort:        "updated",
				ListOptions: gh.ListOptions{Page: page, PerPage: perPage},
			}
			return fetch(ctx, c, "list repos "+login,
				func(ctx context.Context) ([]*gh.Repository, *gh.Response, error) {
					return c.gh.Repositories.ListByUser(ctx, login, opts)
				})
		})

	result := make([]domain.Repository, 0, len(repos))
	for _, r := range repos {
		result = append(result, toRepository(r, login))
	}
	return result, err
}

func toRepository(r *gh.Repository, fallbackOwner string) domain.Repository {
	owner := r.GetOwner().GetLogin()
	if owner == "" {
		owner = fallbackOwner
	}
	return domain.Repository{
		Owner:    owner,
		Name:     r.GetName(),
		Homepage: r.GetHomepage(),
		Fork:     r.GetFork(),
	}
}
