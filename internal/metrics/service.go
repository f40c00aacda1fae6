package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ranjgith-s/github-pr-analyzer/internal/cache"
	"github.com/ranjgith-s/github-pr-analyzer/internal/ghclient"
	"github.com/ranjgith-s/github-pr-analyzer/internal/logging"
	"github.com/ranjgith-s/github-pr-analyzer/internal/query"
)

// EnrichConcurrency caps how many records are enriched at once so the
// per-record commit look-ups do not burst the upstream rate limit.
const EnrichConcurrency = 5

// DefaultResultTTL bounds how long an assembled search result stays cached.
const DefaultResultTTL = 5 * time.Minute

// Deps are the collaborators a Service needs. Caches are constructed per
// Service so lifetimes are isolated per run instead of shared module state.
type Deps struct {
	Search   Searcher
	Details  DetailFetcher
	Commits  CommitLister
	Identity IdentityProvider
	Log      logging.Logger
	// ResultTTL overrides DefaultResultTTL when positive.
	ResultTTL time.Duration
	// CacheCapacity bounds the result and commit caches; zero means
	// cache.DefaultCapacity.
	CacheCapacity int
}

// Service is the metrics ingestion pipeline: search, batched detail
// resolution, per-record enrichment and transform, all behind a short-TTL
// result cache.
type Service struct {
	deps      Deps
	resultTTL time.Duration

	results  *cache.Cache[*SearchResult]
	commits  *cache.Cache[[]Commit]
	identity *cache.Cache[string]
}

func NewService(deps Deps) *Service {
	ttl := deps.ResultTTL
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	return &Service{
		deps:      deps,
		resultTTL: ttl,
		results:   cache.New[*SearchResult](deps.CacheCapacity),
		commits:   cache.New[[]Commit](deps.CacheCapacity),
		identity:  cache.New[string](1),
	}
}

// Search resolves a search query into normalized pull-request records. The
// query is validated and sanitized first; validation failures surface as
// *query.ValidationError before any network call. Nothing is cached on any
// error path.
func (s *Service) Search(ctx context.Context, q string, opts Options) (*SearchResult, error) {
	sanitized, err := query.ValidateAndSanitize(q)
	if err != nil {
		return nil, err
	}

	key := resultKey(sanitized, opts)
	if cached, ok := s.results.Get(key); ok {
		s.deps.Log.Debug("search cache hit", "key", key)
		return cached, nil
	}

	page, err := s.deps.Search.Search(ctx, sanitized, opts)
	if err != nil {
		return nil, ghclient.MapError(err)
	}

	items, err := s.enrich(ctx, page.Items)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{
		TotalCount:        page.TotalCount,
		IncompleteResults: page.IncompleteResults,
		Items:             items,
	}
	s.results.Set(key, result, s.resultTTL)
	return result, nil
}

// ListForViewer is the legacy entry point: it substitutes the default query
// for the authenticated user and returns only the items slice. Older call
// sites depend on this exact shape.
func (s *Service) ListForViewer(ctx context.Context) ([]PullRequest, error) {
	login, err := s.viewerLogin(ctx)
	if err != nil {
		return nil, ghclient.MapError(err)
	}
	q := fmt.Sprintf("author:%s OR reviewed-by:%s", login, login)
	result, err := s.Search(ctx, q, Options{Page: 1, PerPage: 50, Sort: "updated", Order: "desc"})
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

func (s *Service) viewerLogin(ctx context.Context) (string, error) {
	if login, ok := s.identity.Get("viewer"); ok {
		return login, nil
	}
	login, err := s.deps.Identity.Login(ctx)
	if err != nil {
		return "", err
	}
	s.identity.Set("viewer", login, 0)
	return login, nil
}

type stubRef struct {
	stub  SearchStub
	owner string
	name  string
}

func (s *Service) enrich(ctx context.Context, stubs []SearchStub) ([]PullRequest, error) {
	var refs []stubRef
	var batch []ghclient.PRRef
	for _, stub := range stubs {
		owner, name, err := ghclient.SplitRepoURL(stub.RepositoryURL)
		if err != nil {
			s.deps.Log.Debug("skipping stub with unparseable repository url", "url", stub.RepositoryURL)
			continue
		}
		refs = append(refs, stubRef{stub: stub, owner: owner, name: name})
		batch = append(batch, ghclient.PRRef{Owner: owner, Repo: name, Number: stub.Number})
	}
	if len(refs) == 0 {
		return []PullRequest{}, nil
	}

	details, err := s.deps.Details.Details(ctx, batch)
	if err != nil {
		return nil, err
	}

	items := make([]PullRequest, len(refs))
	keep := make([]bool, len(refs))
	for start := 0; start < len(refs); start += EnrichConcurrency {
		end := start + EnrichConcurrency
		if end > len(refs) {
			end = len(refs)
		}
		var wg sync.WaitGroup
		errs := make([]error, end-start)
		for i := start; i < end; i++ {
			if !details[i].Found {
				continue
			}
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				commits, err := s.commitList(ctx, refs[i].owner, refs[i].name, refs[i].stub.Number)
				if err != nil {
					errs[i-start] = err
					return
				}
				items[i] = transform(details[i], refs[i].stub, refs[i].owner, refs[i].name, commits)
				keep[i] = true
			}(i)
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				return nil, ghclient.MapError(err)
			}
		}
	}

	out := make([]PullRequest, 0, len(refs))
	for i, ok := range keep {
		if ok {
			out = append(out, items[i])
		}
	}
	return out, nil
}

// commitList fetches one pull request's commits, reusing the process-lifetime
// cache keyed by owner/repo/number.
func (s *Service) commitList(ctx context.Context, owner, repo string, number int) ([]Commit, error) {
	key := fmt.Sprintf("%s/%s/%d", owner, repo, number)
	if commits, ok := s.commits.Get(key); ok {
		return commits, nil
	}
	commits, err := s.deps.Commits.ListCommits(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}
	s.commits.Set(key, commits, 0)
	return commits, nil
}

func resultKey(sanitized string, opts Options) string {
	return fmt.Sprintf("%s|page=%d|per_page=%d|sort=%s|order=%s",
		sanitized, opts.Page, opts.PerPage, opts.Sort, opts.Order)
}
