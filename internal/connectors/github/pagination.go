package github

import (
	"context"

	"github.com/custodia-labs/ghharvest/internal/logger"
)

// pageFunc fetches one page of results.
type pageFunc[T any] func(ctx context.Context, page, perPage int) ([]T, error)

// paginate collects up to max items, starting at page 1 with pages of
// min(MaxPerPage, max) items. It stops when max items are collected, a
// page fails, a page is empty, or a page is shorter than the page size.
// The result is truncated to max.
//
// A failed page ends pagination with the items gathered so far; only a
// cancelled context is returned as an error.
func paginate[T any](ctx context.Context, op string, max int, fetchPage pageFunc[T]) ([]T, error) {
	if max <= 0 {
		return nil, nil
	}

	perPage := min(MaxPerPage, max)
	var items []T

	for page := 1; len(items) < max; page++ {
		batch, err := fetchPage(ctx, page, perPage)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return items, ctxErr
			}
			logger.Warn("%s: page %d unavailable, keeping %d items: %v", op, page, len(items), err)
			break
		}

		if len(batch) == 0 {
			break
		}
		items = append(items, batch...)

		if len(batch) < perPage {
			break
		}
	}

	if len(items) > max {
		items = items[:max]
	}
	return items, nil
}
