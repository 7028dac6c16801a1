package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
	"github.com/custodia-labs/ghharvest/internal/logger"
)

// GetFileContent fetches a file and decodes its base64 content.
// Directories and undecodable content yield domain.ErrUnavailable.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path string) (string, error) {
	op := fmt.Sprintf("get contents %s/%s/%s", owner, repo, path)
	content, err := fetch(ctx, c, op,
		func(ctx context.Context) (*gh.RepositoryContent, *gh.Response, error) {
			file, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, nil)
			return file, resp, err
		})
	if err != nil {
		return "", err
	}
	if content == nil || content.Content == nil {
		return "", fmt.Errorf("%s: %w: path is not a file", op, domain.ErrUnavailable)
	}

	decoded, err := content.GetContent()
	if err != nil {
		logger.Warn("%s: decode content: %v", op, err)
		return "", fmt.Errorf("%s: %w: decode content: %w", op, domain.ErrUnavailable, err)
	}
	return decoded, nil
}
