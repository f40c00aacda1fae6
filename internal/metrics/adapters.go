package metrics

import (
	"context"

	"github.com/google/go-github/v66/github"

	"github.com/ranjgith-s/github-pr-analyzer/internal/ghclient"
)

// GitHubSearcher adapts the go-github issue search endpoint to the pipeline's
// Searcher interface.
type GitHubSearcher struct {
	Client *github.Client
}

func (g *GitHubSearcher) Search(ctx context.Context, q string, opts Options) (*SearchPage, error) {
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = 30
	}
	res, _, err := g.Client.Search.Issues(ctx, q, &github.SearchOptions{
		Sort:        opts.Sort,
		Order:       opts.Order,
		ListOptions: github.ListOptions{Page: opts.Page, PerPage: perPage},
	})
	if err != nil {
		return nil, ghclient.MapError(err)
	}

	page := &SearchPage{
		TotalCount:        res.GetTotal(),
		IncompleteResults: res.GetIncompleteResults(),
	}
	for _, issue := range res.Issues {
		page.Items = append(page.Items, SearchStub{
			ID:            issue.GetID(),
			Number:        issue.GetNumber(),
			RepositoryURL: issue.GetRepositoryURL(),
			HTMLURL:       issue.GetHTMLURL(),
		})
	}
	return page, nil
}

// GitHubCommitLister adapts the pull-request commit list endpoint.
type GitHubCommitLister struct {
	Client *github.Client
}

func (g *GitHubCommitLister) ListCommits(ctx context.Context, owner, repo string, number int) ([]Commit, error) {
	raw, err := ghclient.ListAll(ctx, func(ctx context.Context, page int) ([]*github.RepositoryCommit, *github.Response, error) {
		return g.Client.PullRequests.ListCommits(ctx, owner, repo, number,
			&github.ListOptions{Page: page, PerPage: 100})
	})
	if err != nil {
		return nil, err
	}

	commits := make([]Commit, 0, len(raw))
	for _, rc := range raw {
		c := Commit{SHA: rc.GetSHA()}
		if date := rc.GetCommit().GetAuthor().GetDate(); !date.IsZero() {
			t := date.Time
			c.AuthoredAt = &t
		}
		commits = append(commits, c)
	}
	return commits, nil
}

// GitHubIdentity resolves the authenticated login.
type GitHubIdentity struct {
	Client *github.Client
}

func (g *GitHubIdentity) Login(ctx context.Context) (string, error) {
	user, _, err := g.Client.Users.Get(ctx, "")
	if err != nil {
		return "", ghclient.MapError(err)
	}
	return user.GetLogin(), nil
}
