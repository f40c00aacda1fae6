package metrics

import (
	"testing"
	"time"

	"github.com/ranjgith-s/github-pr-analyzer/internal/ghclient"
)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestDeriveStatePrecedence(t *testing.T) {
	cases := []struct {
		name   string
		detail ghclient.Detail
		want   string
	}{
		{"draft wins over merged and closed", ghclient.Detail{IsDraft: true, MergedAt: ts("2024-01-02T00:00:00Z"), ClosedAt: ts("2024-01-02T00:00:00Z")}, "draft"},
		{"merged wins over closed", ghclient.Detail{MergedAt: ts("2024-01-02T00:00:00Z"), ClosedAt: ts("2024-01-02T00:00:00Z")}, "merged"},
		{"closed without merge", ghclient.Detail{ClosedAt: ts("2024-01-02T00:00:00Z")}, "closed"},
		{"open otherwise", ghclient.Detail{State: "OPEN"}, "open"},
	}
	for _, tc := range cases {
		if got := deriveState(tc.detail); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestScanReviews(t *testing.T) {
	reviews := []ghclient.Review{
		{Author: "alice", State: "CHANGES_REQUESTED", SubmittedAt: ts("2024-01-03T10:00:00Z")},
		{Author: "bob", State: "APPROVED", SubmittedAt: ts("2024-01-02T10:00:00Z")},
		{Author: "alice", State: "APPROVED", SubmittedAt: ts("2024-01-04T10:00:00Z")},
	}
	reviewers, changesRequested, first := scanReviews(reviews)
	if len(reviewers) != 2 || reviewers[0] != "alice" || reviewers[1] != "bob" {
		t.Fatalf("unexpected reviewer set %v", reviewers)
	}
	if changesRequested != 1 {
		t.Fatalf("expected 1 changes-requested review, got %d", changesRequested)
	}
	if first == nil || !first.Equal(*ts("2024-01-02T10:00:00Z")) {
		t.Fatalf("expected earliest submission, got %v", first)
	}
}

func TestFirstCommitFallback(t *testing.T) {
	detail := ghclient.Detail{FirstCommitAt: ts("2024-01-01T00:00:00Z")}
	if got := firstCommitAt(nil, detail); got == nil || !got.Equal(*detail.FirstCommitAt) {
		t.Fatalf("expected fallback to detail timestamp, got %v", got)
	}

	commits := []Commit{
		{SHA: "b", AuthoredAt: ts("2024-01-03T00:00:00Z")},
		{SHA: "a", AuthoredAt: ts("2024-01-02T00:00:00Z")},
	}
	if got := firstCommitAt(commits, detail); got == nil || !got.Equal(*ts("2024-01-02T00:00:00Z")) {
		t.Fatalf("expected earliest commit date, got %v", got)
	}
}

func TestTransformTimelineOrder(t *testing.T) {
	detail := ghclient.Detail{
		Title:       "add feature",
		CreatedAt:   ts("2024-01-01T00:00:00Z"),
		PublishedAt: ts("2024-01-01T01:00:00Z"),
		ClosedAt:    ts("2024-01-05T00:00:00Z"),
		Reviews: []ghclient.Review{
			{Author: "alice", State: "APPROVED", SubmittedAt: ts("2024-01-02T00:00:00Z")},
		},
		Found: true,
	}
	pr := transform(detail, SearchStub{ID: 1, Number: 42}, "acme", "widgets", nil)

	if pr.Repo != "acme/widgets" {
		t.Fatalf("unexpected repo %q", pr.Repo)
	}
	wantLabels := []string{"Created", "Published", "First review", "Closed"}
	if len(pr.Timeline) != len(wantLabels) {
		t.Fatalf("expected %d timeline stages, got %d", len(wantLabels), len(pr.Timeline))
	}
	for i, want := range wantLabels {
		if pr.Timeline[i].Label != want {
			t.Fatalf("stage %d: got %q, want %q", i, pr.Timeline[i].Label, want)
		}
	}
}

func TestTransformSkipsUnknownStages(t *testing.T) {
	detail := ghclient.Detail{CreatedAt: ts("2024-01-01T00:00:00Z"), Found: true}
	pr := transform(detail, SearchStub{Number: 1}, "a", "b", nil)
	if len(pr.Timeline) != 1 || pr.Timeline[0].Label != "Created" {
		t.Fatalf("expected only the Created stage, got %v", pr.Timeline)
	}
}

