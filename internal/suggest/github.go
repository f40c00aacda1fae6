package suggest

import (
	"context"

	"github.com/google/go-github/v66/github"

	"github.com/ranjgith-s/github-pr-analyzer/internal/cache"
	"github.com/ranjgith-s/github-pr-analyzer/internal/ghclient"
	"github.com/ranjgith-s/github-pr-analyzer/internal/logging"
)

const userSearchLimit = 5

// GitHubLookup resolves users and repositories through the GitHub REST API.
type GitHubLookup struct {
	Client *github.Client
}

func (g *GitHubLookup) SearchUsers(ctx context.Context, partial string) ([]string, error) {
	res, _, err := g.Client.Search.Users(ctx, partial, &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: userSearchLimit},
	})
	if err != nil {
		return nil, ghclient.MapError(err)
	}
	logins := make([]string, 0, len(res.Users))
	for _, u := range res.Users {
		logins = append(logins, u.GetLogin())
	}
	return logins, nil
}

func (g *GitHubLookup) Repositories(ctx context.Context) ([]string, error) {
	repos, _, err := g.Client.Repositories.ListByAuthenticatedUser(ctx, &github.RepositoryListByAuthenticatedUserOptions{
		Sort:        "pushed",
		ListOptions: github.ListOptions{PerPage: 100},
	})
	if err != nil {
		return nil, ghclient.MapError(err)
	}
	names := make([]string, 0, len(repos))
	for _, r := range repos {
		names = append(names, r.GetFullName())
	}
	return names, nil
}

// Factory memoizes one Engine per credential so a keystroke never pays for
// client construction.
type Factory struct {
	memo    *ghclient.Memo
	engines *cache.Cache[*Engine]
	log     logging.Logger
}

func NewFactory(log logging.Logger) *Factory {
	return &Factory{
		memo:    ghclient.NewMemo(),
		engines: cache.New[*Engine](cache.DefaultCapacity),
		log:     log,
	}
}

// Engine returns the suggestion engine bound to token.
func (f *Factory) Engine(token string) *Engine {
	if e, ok := f.engines.Get(token); ok {
		return e
	}
	e := NewEngine(&GitHubLookup{Client: f.memo.Client(token)}, f.log)
	f.engines.Set(token, e, 0)
	return e
}
