package ghclient

import (
	"context"

	"github.com/google/go-github/v66/github"
)

// PageFunc fetches one page of results. Implementations close over their own
// endpoint-specific options and apply the page number they are given.
type PageFunc[T any] func(ctx context.Context, page int) ([]T, *github.Response, error)

// ListAll materializes every page of a paginated endpoint into one slice.
// Errors pass through MapError.
func ListAll[T any](ctx context.Context, fn PageFunc[T]) ([]T, error) {
	var all []T
	page := 1
	for {
		items, resp, err := fn(ctx, page)
		if err != nil {
			return nil, MapError(err)
		}
		all = append(all, items...)
		if resp == nil || resp.NextPage == 0 {
			break
		}
		page = resp.NextPage
	}
	return all, nil
}
