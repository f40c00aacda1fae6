package metrics

import (
	"strings"
	"time"

	"github.com/ranjgith-s/github-pr-analyzer/internal/ghclient"
)

// transform assembles the canonical record from the three raw sources. It is
// pure: no I/O, no clock reads.
func transform(detail ghclient.Detail, stub SearchStub, owner, repo string, commits []Commit) PullRequest {
	reviewers, changesRequested, firstReview := scanReviews(detail.Reviews)

	pr := PullRequest{
		ID:               stub.ID,
		Owner:            owner,
		RepoName:         repo,
		Repo:             owner + "/" + repo,
		Number:           stub.Number,
		Title:            detail.Title,
		URL:              detail.URL,
		Author:           detail.Author,
		State:            deriveState(detail),
		CreatedAt:        detail.CreatedAt,
		PublishedAt:      detail.PublishedAt,
		ClosedAt:         detail.ClosedAt,
		FirstReviewAt:    firstReview,
		FirstCommitAt:    firstCommitAt(commits, detail),
		Reviewers:        reviewers,
		ChangesRequested: changesRequested,
		Additions:        detail.Additions,
		Deletions:        detail.Deletions,
		CommentCount:     detail.CommentCount,
	}
	pr.Timeline = buildTimeline(pr)
	return pr
}

// scanReviews walks the review list once, collecting the reviewer set in
// first-appearance order, the CHANGES_REQUESTED count and the earliest
// submission time.
func scanReviews(reviews []ghclient.Review) ([]string, int, *time.Time) {
	var reviewers []string
	seen := make(map[string]struct{})
	changesRequested := 0
	var first *time.Time
	for _, r := range reviews {
		if r.Author != "" {
			if _, ok := seen[r.Author]; !ok {
				seen[r.Author] = struct{}{}
				reviewers = append(reviewers, r.Author)
			}
		}
		if r.State == "CHANGES_REQUESTED" {
			changesRequested++
		}
		if r.SubmittedAt != nil && (first == nil || r.SubmittedAt.Before(*first)) {
			first = r.SubmittedAt
		}
	}
	return reviewers, changesRequested, first
}

// deriveState applies the strict precedence draft > merged > closed > open.
func deriveState(detail ghclient.Detail) string {
	switch {
	case detail.IsDraft:
		return "draft"
	case detail.MergedAt != nil || strings.EqualFold(detail.State, "merged"):
		return "merged"
	case detail.ClosedAt != nil || strings.EqualFold(detail.State, "closed"):
		return "closed"
	default:
		return "open"
	}
}

// firstCommitAt is the earliest commit timestamp from the REST commit list,
// falling back to the detail's own first-commit date when the list is empty.
func firstCommitAt(commits []Commit, detail ghclient.Detail) *time.Time {
	var first *time.Time
	for _, c := range commits {
		if c.AuthoredAt != nil && (first == nil || c.AuthoredAt.Before(*first)) {
			first = c.AuthoredAt
		}
	}
	if first == nil {
		return detail.FirstCommitAt
	}
	return first
}

func buildTimeline(pr PullRequest) []TimelineEntry {
	stages := []struct {
		label string
		date  *time.Time
	}{
		{"Created", pr.CreatedAt},
		{"Published", pr.PublishedAt},
		{"First review", pr.FirstReviewAt},
		{"Closed", pr.ClosedAt},
	}
	var timeline []TimelineEntry
	for _, s := range stages {
		if s.date != nil {
			timeline = append(timeline, TimelineEntry{Label: s.label, Date: *s.date})
		}
	}
	return timeline
}
