package metrics

import (
	"context"
	"time"

	"github.com/ranjgith-s/github-pr-analyzer/internal/ghclient"
)

// PullRequest is the canonical normalized record for one pull request.
// Instances are immutable once produced by the transform step.
type PullRequest struct {
	ID       int64  `json:"id"`
	Owner    string `json:"owner"`
	RepoName string `json:"repo_name"`
	Repo     string `json:"repo"`
	Number   int    `json:"number"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Author   string `json:"author"`

	// State is one of open, closed, merged or draft, derived by strict
	// precedence: draft over merged over closed over open.
	State string `json:"state"`

	CreatedAt     *time.Time `json:"created_at"`
	PublishedAt   *time.Time `json:"published_at"`
	ClosedAt      *time.Time `json:"closed_at"`
	FirstReviewAt *time.Time `json:"first_review_at"`
	FirstCommitAt *time.Time `json:"first_commit_at"`

	Reviewers        []string `json:"reviewers"`
	ChangesRequested int      `json:"changes_requested"`
	Additions        int      `json:"additions"`
	Deletions        int      `json:"deletions"`
	CommentCount     int      `json:"comment_count"`

	Timeline []TimelineEntry `json:"timeline"`
}

// TimelineEntry is one known lifecycle stage of a pull request.
type TimelineEntry struct {
	Label string    `json:"label"`
	Date  time.Time `json:"date"`
}

// SearchResult is the structured pipeline output for one search call.
type SearchResult struct {
	TotalCount        int           `json:"total_count"`
	IncompleteResults bool          `json:"incomplete_results"`
	Items             []PullRequest `json:"items"`
}

// Options are the pagination and sort knobs forwarded to the upstream search.
type Options struct {
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	Sort    string `json:"sort"`
	Order   string `json:"order"`
}

// SearchStub is the thin record the search endpoint returns per hit; full
// detail is resolved separately in batches.
type SearchStub struct {
	ID            int64
	Number        int
	RepositoryURL string
	HTMLURL       string
}

// SearchPage is one page of raw search hits.
type SearchPage struct {
	TotalCount        int
	IncompleteResults bool
	Items             []SearchStub
}

// Commit is the slice of commit data the transform needs.
type Commit struct {
	SHA        string
	AuthoredAt *time.Time
}

// Searcher issues the paginated issue-search call.
type Searcher interface {
	Search(ctx context.Context, query string, opts Options) (*SearchPage, error)
}

// DetailFetcher resolves full pull-request detail in alias-indexed batches,
// preserving input order.
type DetailFetcher interface {
	Details(ctx context.Context, refs []ghclient.PRRef) ([]ghclient.Detail, error)
}

// CommitLister fetches the commit list of one pull request.
type CommitLister interface {
	ListCommits(ctx context.Context, owner, repo string, number int) ([]Commit, error)
}

// IdentityProvider resolves the authenticated user's login.
type IdentityProvider interface {
	Login(ctx context.Context) (string, error)
}
