package repoinsights

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/go-github/v66/github"

	"github.com/ranjgith-s/github-pr-analyzer/internal/cache"
	"github.com/ranjgith-s/github-pr-analyzer/internal/ghclient"
	"github.com/ranjgith-s/github-pr-analyzer/internal/logging"
)

// deployWindow is the trailing window for the deployment-frequency probe.
const deployWindow = 30 * 24 * time.Hour

// Insights are the DevOps health metrics for one repository.
type Insights struct {
	Owner         string `json:"owner"`
	Repo          string `json:"repo"`
	DefaultBranch string `json:"default_branch"`

	// DeploymentFrequency is the default-branch commit count over the last
	// 30 days.
	DeploymentFrequency int `json:"deployment_frequency"`

	LeadTimeHours         float64 `json:"lead_time_hours"`
	AverageMergeTimeHours float64 `json:"average_merge_time_hours"`

	// ChangeFailureRate is the failed fraction of recent completed CI runs.
	ChangeFailureRate float64 `json:"change_failure_rate"`

	MeanTimeToRestoreHours float64 `json:"mean_time_to_restore_hours"`

	OpenPRs   int `json:"open_prs"`
	ClosedPRs int `json:"closed_prs"`

	// OpenIssues subtracts open pull requests from the provider's open-issue
	// counter, which conflates the two.
	OpenIssues int `json:"open_issues"`

	// WeeklyCommits is the most recent week's per-day commit counts.
	WeeklyCommits []int `json:"weekly_commits"`

	Contributors    int `json:"contributors"`
	CommunityHealth int `json:"community_health"`
}

// Service aggregates repository insights from several REST probes. Repository
// metadata is cached for the process lifetime.
type Service struct {
	client *github.Client
	meta   *cache.Cache[*github.Repository]
	log    logging.Logger
	now    func() time.Time
}

func NewService(client *github.Client, log logging.Logger) *Service {
	return &Service{
		client: client,
		meta:   cache.New[*github.Repository](cache.DefaultCapacity),
		log:    log.WithName("repoinsights"),
		now:    time.Now,
	}
}

// Insights fetches the repository metadata, then fans the remaining probes
// out in parallel and derives the DevOps metrics from their results.
func (s *Service) Insights(ctx context.Context, owner, repo string) (*Insights, error) {
	meta, err := s.repository(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	branch := meta.GetDefaultBranch()

	var (
		wg           sync.WaitGroup
		commits      []*github.RepositoryCommit
		closedPRs    []*github.PullRequest
		openPRs      []*github.PullRequest
		runs         []*github.WorkflowRun
		activity     []*github.WeeklyCommitActivity
		contributors []*github.Contributor
		health       int
	)
	errs := make([]error, 7)

	run := func(slot int, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[slot] = fn()
		}()
	}

	since := s.now().Add(-deployWindow)
	run(0, func() (err error) {
		commits, err = ghclient.ListAll(ctx, func(ctx context.Context, page int) ([]*github.RepositoryCommit, *github.Response, error) {
			return s.client.Repositories.ListCommits(ctx, owner, repo, &github.CommitsListOptions{
				SHA:         branch,
				Since:       since,
				ListOptions: github.ListOptions{Page: page, PerPage: 100},
			})
		})
		return err
	})
	run(1, func() (err error) {
		closedPRs, _, err = s.client.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{
			State: "closed", Sort: "updated", Direction: "desc",
			ListOptions: github.ListOptions{PerPage: 100},
		})
		return ghclient.MapError(err)
	})
	run(2, func() (err error) {
		openPRs, _, err = s.client.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{
			State:       "open",
			ListOptions: github.ListOptions{PerPage: 100},
		})
		return ghclient.MapError(err)
	})
	run(3, func() (err error) {
		result, _, err := s.client.Actions.ListRepositoryWorkflowRuns(ctx, owner, repo, &github.ListWorkflowRunsOptions{
			Branch: branch, Status: "completed",
			ListOptions: github.ListOptions{PerPage: 100},
		})
		if err != nil {
			return ghclient.MapError(err)
		}
		runs = result.WorkflowRuns
		return nil
	})
	run(4, func() (err error) {
		activity, _, err = s.client.Repositories.ListCommitActivity(ctx, owner, repo)
		return ghclient.MapError(err)
	})
	run(5, func() (err error) {
		contributors, _, err = s.client.Repositories.ListContributors(ctx, owner, repo, &github.ListContributorsOptions{
			ListOptions: github.ListOptions{PerPage: 100},
		})
		return ghclient.MapError(err)
	})
	run(6, func() error {
		m, _, err := s.client.Repositories.GetCommunityHealthMetrics(ctx, owner, repo)
		if err != nil {
			return ghclient.MapError(err)
		}
		health = m.GetHealthPercentage()
		return nil
	})
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	mergeMean := meanMergeHours(closedPRs)
	ins := &Insights{
		Owner:                  owner,
		Repo:                   repo,
		DefaultBranch:          branch,
		DeploymentFrequency:    len(commits),
		LeadTimeHours:          mergeMean,
		AverageMergeTimeHours:  mergeMean,
		ChangeFailureRate:      failureRate(runs),
		MeanTimeToRestoreHours: meanTimeToRestore(runs),
		OpenPRs:                len(openPRs),
		ClosedPRs:              len(closedPRs),
		OpenIssues:             openIssuesCorrected(meta, len(openPRs)),
		WeeklyCommits:          latestWeekDaily(activity),
		Contributors:           len(contributors),
		CommunityHealth:        health,
	}
	s.log.Debug("derived repository insights", "repo", fmt.Sprintf("%s/%s", owner, repo),
		"deployment_frequency", ins.DeploymentFrequency)
	return ins, nil
}

func (s *Service) repository(ctx context.Context, owner, repo string) (*github.Repository, error) {
	key := owner + "/" + repo
	if meta, ok := s.meta.Get(key); ok {
		return meta, nil
	}
	meta, _, err := s.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, ghclient.MapError(err)
	}
	s.meta.Set(key, meta, 0)
	return meta, nil
}
