package driven

import (
	"context"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
)

// AccountSource is the rate-limited view of the platform API used by the
// harvester. Every method returns domain.ErrUnavailable (possibly wrapped)
// when data could not be obtained; list methods may instead return the
// items gathered before a page failed.
type AccountSource interface {
	// SearchAccounts returns up to max account logins matching query.
	SearchAccounts(ctx context.Context, query string, max int) ([]string, error)

	// GetAccount fetches a public profile.
	GetAccount(ctx context.Context, login string) (*domain.Account, error)

	// ListRepositories lists up to max repositories for login,
	// most recently updated first.
	ListRepositories(ctx context.Context, login string, max int) ([]domain.Repository, error)

	// ListCommits lists up to max commits of owner/repo. A non-empty
	// author is passed to the server as a filter.
	ListCommits(ctx context.Context, owner, repo, author string, max int) ([]domain.Commit, error)

	// GetFileContent fetches and decodes a file from a repository.
	GetFileContent(ctx context.Context, owner, repo, path string) (string, error)
}
