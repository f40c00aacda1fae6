package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/go-logr/logr"

	"github.com/ranjgith-s/github-pr-analyzer/internal/ghclient"
	"github.com/ranjgith-s/github-pr-analyzer/internal/logging"
	"github.com/ranjgith-s/github-pr-analyzer/internal/query"
)

type fakeSearcher struct {
	page  *SearchPage
	calls int
	last  string
}

func (f *fakeSearcher) Search(ctx context.Context, q string, opts Options) (*SearchPage, error) {
	f.calls++
	f.last = q
	return f.page, nil
}

type fakeDetails struct {
	details []ghclient.Detail
	calls   int
}

func (f *fakeDetails) Details(ctx context.Context, refs []ghclient.PRRef) ([]ghclient.Detail, error) {
	f.calls++
	return f.details, nil
}

type fakeCommits struct {
	commits []Commit
	calls   int
}

func (f *fakeCommits) ListCommits(ctx context.Context, owner, repo string, number int) ([]Commit, error) {
	f.calls++
	return f.commits, nil
}

type fakeIdentity struct {
	login string
	calls int
}

func (f *fakeIdentity) Login(ctx context.Context) (string, error) {
	f.calls++
	return f.login, nil
}

func newTestService(searcher *fakeSearcher, details *fakeDetails, commits *fakeCommits, identity *fakeIdentity) *Service {
	return NewService(Deps{
		Search:   searcher,
		Details:  details,
		Commits:  commits,
		Identity: identity,
		Log:      logging.New(logr.Discard()),
	})
}

func singlePRFixture() (*fakeSearcher, *fakeDetails, *fakeCommits) {
	searcher := &fakeSearcher{page: &SearchPage{
		TotalCount: 1,
		Items: []SearchStub{{
			ID:            101,
			Number:        42,
			RepositoryURL: "https://api.github.com/repos/acme/widgets",
			HTMLURL:       "https://github.com/acme/widgets/pull/42",
		}},
	}}
	details := &fakeDetails{details: []ghclient.Detail{{
		Title:       "add feature",
		URL:         "https://github.com/acme/widgets/pull/42",
		Author:      "john",
		CreatedAt:   ts("2024-01-01T00:00:00Z"),
		PublishedAt: ts("2024-01-01T01:00:00Z"),
		Found:       true,
	}}}
	commits := &fakeCommits{commits: []Commit{{SHA: "abc", AuthoredAt: ts("2023-12-31T00:00:00Z")}}}
	return searcher, details, commits
}

func TestSearchEndToEnd(t *testing.T) {
	searcher, details, commits := singlePRFixture()
	svc := newTestService(searcher, details, commits, &fakeIdentity{})

	res, err := svc.Search(context.Background(), "author:john", Options{Page: 1, PerPage: 10, Sort: "updated"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalCount != 1 {
		t.Fatalf("expected total_count 1, got %d", res.TotalCount)
	}
	if len(res.Items) != 1 {
		t.Fatalf("expected one record, got %d", len(res.Items))
	}
	pr := res.Items[0]
	if pr.Repo != "acme/widgets" {
		t.Fatalf("expected repo parsed from repository url, got %q", pr.Repo)
	}
	if pr.FirstCommitAt == nil || !pr.FirstCommitAt.Equal(*ts("2023-12-31T00:00:00Z")) {
		t.Fatalf("expected first commit date from commit list, got %v", pr.FirstCommitAt)
	}
	if searcher.last != "is:pr author:john" {
		t.Fatalf("expected sanitized query on the wire, got %q", searcher.last)
	}
}

func TestSearchInvalidQueryBeforeNetwork(t *testing.T) {
	searcher, details, commits := singlePRFixture()
	svc := newTestService(searcher, details, commits, &fakeIdentity{})

	_, err := svc.Search(context.Background(), "", Options{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if _, ok := err.(*query.ValidationError); !ok {
		t.Fatalf("expected *query.ValidationError, got %T", err)
	}
	if searcher.calls != 0 {
		t.Fatalf("validation must fail before any network call, got %d calls", searcher.calls)
	}
}

func TestSearchResultCached(t *testing.T) {
	searcher, details, commits := singlePRFixture()
	svc := newTestService(searcher, details, commits, &fakeIdentity{})

	opts := Options{Page: 1, PerPage: 10, Sort: "updated"}
	if _, err := svc.Search(context.Background(), "author:john", opts); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Search(context.Background(), "author:john", opts); err != nil {
		t.Fatal(err)
	}
	if searcher.calls != 1 {
		t.Fatalf("expected second call served from cache, got %d upstream calls", searcher.calls)
	}

	// Different options miss the cache.
	opts.Page = 2
	if _, err := svc.Search(context.Background(), "author:john", opts); err != nil {
		t.Fatal(err)
	}
	if searcher.calls != 2 {
		t.Fatalf("expected distinct options to bypass cache, got %d calls", searcher.calls)
	}
}

func TestCommitListCachedPerPR(t *testing.T) {
	searcher, details, commits := singlePRFixture()
	svc := NewService(Deps{
		Search:   searcher,
		Details:  details,
		Commits:  commits,
		Identity: &fakeIdentity{},
		Log:      logging.New(logr.Discard()),
		// Results must expire so the second search reaches the commit stage.
		ResultTTL: time.Nanosecond,
	})

	if _, err := svc.Search(context.Background(), "author:john", Options{Page: 1}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, err := svc.Search(context.Background(), "author:john", Options{Page: 1}); err != nil {
		t.Fatal(err)
	}
	if commits.calls != 1 {
		t.Fatalf("expected commit list fetched once per owner/repo/number, got %d", commits.calls)
	}
}

func TestListForViewerLegacyShape(t *testing.T) {
	searcher, details, commits := singlePRFixture()
	identity := &fakeIdentity{login: "john"}
	svc := newTestService(searcher, details, commits, identity)

	items, err := svc.ListForViewer(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected bare items slice with one record, got %d", len(items))
	}
	want := "is:pr author:john OR reviewed-by:john"
	if searcher.last != want {
		t.Fatalf("expected default viewer query %q, got %q", want, searcher.last)
	}

	// Identity is memoized.
	if _, err := svc.ListForViewer(context.Background()); err != nil {
		t.Fatal(err)
	}
	if identity.calls != 1 {
		t.Fatalf("expected identity resolved once, got %d calls", identity.calls)
	}
}

func TestSearchSkipsUnresolvedDetails(t *testing.T) {
	searcher := &fakeSearcher{page: &SearchPage{
		TotalCount: 2,
		Items: []SearchStub{
			{ID: 1, Number: 1, RepositoryURL: "https://api.github.com/repos/a/b"},
			{ID: 2, Number: 2, RepositoryURL: "https://api.github.com/repos/a/b"},
		},
	}}
	details := &fakeDetails{details: []ghclient.Detail{
		{},
		{Title: "kept", Found: true},
	}}
	svc := newTestService(searcher, details, &fakeCommits{}, &fakeIdentity{})

	res, err := svc.Search(context.Background(), "author:john", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 1 || res.Items[0].Title != "kept" {
		t.Fatalf("expected unresolved slot dropped, got %+v", res.Items)
	}
}
