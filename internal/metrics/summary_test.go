package metrics

import (
	"testing"
	"time"
)

func TestSummarizeEmpty(t *testing.T) {
	if got := Summarize(nil); got != nil {
		t.Fatalf("expected nil for empty input, got %+v", got)
	}
	if got := Summarize([]PullRequest{}); got != nil {
		t.Fatalf("expected nil for empty slice, got %+v", got)
	}
}

func TestSummarizeSingleRecord(t *testing.T) {
	records := []PullRequest{{
		State:         "merged",
		FirstCommitAt: ts("2024-01-01T00:00:00Z"),
		ClosedAt:      ts("2024-01-02T12:30:00Z"),
	}}
	s := Summarize(records)
	if s == nil {
		t.Fatal("expected summary")
	}
	// 36.5 hours exactly; single-element median equals mean.
	if s.MedianLeadTimeHours != 36.5 || s.MeanLeadTimeHours != 36.5 {
		t.Fatalf("expected 36.5h lead time, got median=%v mean=%v", s.MedianLeadTimeHours, s.MeanLeadTimeHours)
	}
	if s.Count != 1 || s.Merged != 1 || s.Open != 0 {
		t.Fatalf("unexpected counts %+v", s)
	}
}

func TestSummarizeMedianEvenLength(t *testing.T) {
	records := []PullRequest{
		{State: "merged", FirstCommitAt: ts("2024-01-01T00:00:00Z"), ClosedAt: ts("2024-01-01T10:00:00Z")},
		{State: "merged", FirstCommitAt: ts("2024-01-01T00:00:00Z"), ClosedAt: ts("2024-01-01T20:00:00Z")},
	}
	s := Summarize(records)
	if s.MedianLeadTimeHours != 15.0 {
		t.Fatalf("expected even-length median to average middles, got %v", s.MedianLeadTimeHours)
	}
	if s.MeanLeadTimeHours != 15.0 {
		t.Fatalf("expected mean 15.0, got %v", s.MeanLeadTimeHours)
	}
}

func TestSummarizePartialEndpoints(t *testing.T) {
	records := []PullRequest{
		// No first commit: contributes to counts but not to lead time.
		{State: "merged", ClosedAt: ts("2024-01-02T00:00:00Z")},
		{State: "merged", FirstCommitAt: ts("2024-01-01T00:00:00Z"), ClosedAt: ts("2024-01-02T00:00:00Z")},
		// Review time requires both publication and first review.
		{State: "open", PublishedAt: ts("2024-01-01T00:00:00Z"), FirstReviewAt: ts("2024-01-01T06:00:00Z")},
	}
	s := Summarize(records)
	if s.MedianLeadTimeHours != 24.0 {
		t.Fatalf("expected 24h from the one complete record, got %v", s.MedianLeadTimeHours)
	}
	if s.MedianReviewTimeHours != 6.0 {
		t.Fatalf("expected 6h review time, got %v", s.MedianReviewTimeHours)
	}
}

func TestSummarizeStaleOpen(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	fresh := now.Add(-48 * time.Hour)
	stale := now.Add(-8 * 24 * time.Hour)
	records := []PullRequest{
		{State: "open", CreatedAt: &fresh},
		{State: "open", CreatedAt: &stale},
	}
	s := summarizeAt(records, now)
	if s.Open != 2 {
		t.Fatalf("expected 2 open, got %d", s.Open)
	}
	if s.StaleOpen != 1 {
		t.Fatalf("expected 1 stale open, got %d", s.StaleOpen)
	}
}

func TestSummarizeMergedExcludesOpen(t *testing.T) {
	closed := ts("2024-01-02T00:00:00Z")
	records := []PullRequest{
		{State: "open", ClosedAt: closed},
		{State: "closed", ClosedAt: closed},
		{State: "merged", ClosedAt: closed},
		{State: "merged"},
	}
	s := Summarize(records)
	if s.Merged != 2 {
		t.Fatalf("merged requires closed_at and state != open, got %d", s.Merged)
	}
}
