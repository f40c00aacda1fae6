package repoinsights

import (
	"sort"

	"github.com/google/go-github/v66/github"

	"github.com/ranjgith-s/github-pr-analyzer/internal/stats"
)

// meanMergeHours is the mean hours from creation to merge over the recently
// merged pull requests in the closed sample.
func meanMergeHours(closed []*github.PullRequest) float64 {
	var hours []float64
	for _, pr := range closed {
		if pr.MergedAt == nil || pr.CreatedAt == nil {
			continue
		}
		hours = append(hours, pr.GetMergedAt().Time.Sub(pr.GetCreatedAt().Time).Hours())
	}
	return stats.Round1(stats.Mean(hours))
}

// failureRate is the failed fraction of completed runs.
func failureRate(runs []*github.WorkflowRun) float64 {
	if len(runs) == 0 {
		return 0
	}
	failed := 0
	for _, r := range runs {
		if r.GetConclusion() == "failure" {
			failed++
		}
	}
	return stats.Round2(float64(failed) / float64(len(runs)))
}

// meanTimeToRestore pairs each failed run with the next strictly-later
// successful run and averages the gaps. Failures without a later success are
// excluded from the average.
func meanTimeToRestore(runs []*github.WorkflowRun) float64 {
	sorted := append([]*github.WorkflowRun(nil), runs...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].GetCreatedAt().Time.Before(sorted[j].GetCreatedAt().Time)
	})

	var gaps []float64
	for i, r := range sorted {
		if r.GetConclusion() != "failure" {
			continue
		}
		failedAt := r.GetCreatedAt().Time
		for _, later := range sorted[i+1:] {
			if later.GetConclusion() == "success" && later.GetCreatedAt().Time.After(failedAt) {
				gaps = append(gaps, later.GetCreatedAt().Time.Sub(failedAt).Hours())
				break
			}
		}
	}
	return stats.Round1(stats.Mean(gaps))
}

// openIssuesCorrected subtracts open pull requests from the open-issue
// counter, which counts both. Never negative.
func openIssuesCorrected(meta *github.Repository, openPRs int) int {
	n := meta.GetOpenIssuesCount() - openPRs
	if n < 0 {
		return 0
	}
	return n
}

// latestWeekDaily returns the most recent week's per-day commit counts.
func latestWeekDaily(activity []*github.WeeklyCommitActivity) []int {
	if len(activity) == 0 {
		return nil
	}
	return activity[len(activity)-1].Days
}
