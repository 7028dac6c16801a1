package github

import (
	"context"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
)

// ListCommits lists up to max commits of owner/repo. A non-empty author
// is sent to the server as the author filter.
func (c *Client) ListCommits(ctx context.Context, owner, repo, author string, max int) ([]domain.Commit, error) {
	op := "list commits " + owner + "/" + repo
	commits, err := paginate(ctx, op, max,
		func(ctx context.Context, page, perPage int) ([]*gh.RepositoryCommit, error) {
			opts := &gh.CommitsListOptions{
				Author:      author,
				ListOptions: gh.ListOptions{Page: page, PerPage: perPage},
			}
			return fetch(ctx, c, op,
				func(ctx context.Context) ([]*gh.RepositoryCommit, *gh.Response, error) {
					return c.gh.Repositories.ListCommits(ctx, owner, repo, opts)
				})
		})

	result := make([]domain.Commit, 0, len(commits))
	for _, rc := range commits {
		result = append(result, toCommit(rc))
	}
	return result, err
}

// toCommit maps a commit. Login fields come from the accounts GitHub
// linked to the commit, name and email from the git metadata.
func toCommit(rc *gh.RepositoryCommit) domain.Commit {
	meta := rc.GetCommit()
	return domain.Commit{
		SHA: rc.GetSHA(),
		Author: domain.Identity{
			Name:  meta.GetAuthor().GetName(),
			Email: meta.GetAuthor().GetEmail(),
			Login: rc.GetAuthor().GetLogin(),
		},
		Committer: domain.Identity{
			Name:  meta.GetCommitter().GetName(),
			Email: meta.GetCommitter().GetEmail(),
			Login: rc.GetCommitter().GetLogin(),
		},
	}
}
