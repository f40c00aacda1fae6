package repoinsights

import (
	"testing"
	"time"

	"github.com/google/go-github/v66/github"
)

func run(conclusion string, createdAt time.Time) *github.WorkflowRun {
	return &github.WorkflowRun{
		Conclusion: github.String(conclusion),
		CreatedAt:  &github.Timestamp{Time: createdAt},
	}
}

func TestFailureRate(t *testing.T) {
	if got := failureRate(nil); got != 0 {
		t.Fatalf("expected 0 for no runs, got %v", got)
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	runs := []*github.WorkflowRun{
		run("success", base),
		run("failure", base.Add(time.Hour)),
		run("success", base.Add(2*time.Hour)),
		run("failure", base.Add(3*time.Hour)),
	}
	if got := failureRate(runs); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}

func TestMeanTimeToRestorePairsNextSuccess(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	runs := []*github.WorkflowRun{
		run("failure", base),                    // restored after 2h
		run("success", base.Add(2*time.Hour)),   //
		run("failure", base.Add(3*time.Hour)),   // restored after 1h
		run("success", base.Add(4*time.Hour)),   //
		run("failure", base.Add(10*time.Hour)),  // never restored, excluded
	}
	if got := meanTimeToRestore(runs); got != 1.5 {
		t.Fatalf("expected mean of 2h and 1h = 1.5, got %v", got)
	}
}

func TestMeanTimeToRestoreUnsortedInput(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	runs := []*github.WorkflowRun{
		run("success", base.Add(2*time.Hour)),
		run("failure", base),
	}
	if got := meanTimeToRestore(runs); got != 2.0 {
		t.Fatalf("expected 2.0 regardless of input order, got %v", got)
	}
}

func TestMeanTimeToRestoreNoSuccess(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	runs := []*github.WorkflowRun{run("failure", base)}
	if got := meanTimeToRestore(runs); got != 0 {
		t.Fatalf("unmatched failures must not skew the average, got %v", got)
	}
}

func TestMeanMergeHours(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	merged := created.Add(12 * time.Hour)
	prs := []*github.PullRequest{
		{
			CreatedAt: &github.Timestamp{Time: created},
			MergedAt:  &github.Timestamp{Time: merged},
		},
		// Closed without merge, excluded.
		{CreatedAt: &github.Timestamp{Time: created}},
	}
	if got := meanMergeHours(prs); got != 12.0 {
		t.Fatalf("expected 12.0, got %v", got)
	}
}

func TestOpenIssuesCorrected(t *testing.T) {
	meta := &github.Repository{OpenIssuesCount: github.Int(10)}
	if got := openIssuesCorrected(meta, 4); got != 6 {
		t.Fatalf("expected 6, got %d", got)
	}
	if got := openIssuesCorrected(meta, 15); got != 0 {
		t.Fatalf("expected clamp at 0, got %d", got)
	}
}

func TestLatestWeekDaily(t *testing.T) {
	if got := latestWeekDaily(nil); got != nil {
		t.Fatalf("expected nil for no activity, got %v", got)
	}
	activity := []*github.WeeklyCommitActivity{
		{Days: []int{0, 1, 2, 3, 4, 5, 6}},
		{Days: []int{1, 1, 1, 1, 1, 1, 1}},
	}
	got := latestWeekDaily(activity)
	if len(got) != 7 || got[0] != 1 {
		t.Fatalf("expected the most recent week, got %v", got)
	}
}
