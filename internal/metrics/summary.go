package metrics

import (
	"time"

	"github.com/ranjgith-s/github-pr-analyzer/internal/stats"
)

// staleAfter is how old an open pull request must be before it counts as
// stale.
const staleAfter = 7 * 24 * time.Hour

// Summary is the statistical rollup over a set of normalized records.
type Summary struct {
	Count     int `json:"count"`
	Merged    int `json:"merged"`
	Open      int `json:"open"`
	StaleOpen int `json:"stale_open"`

	MedianLeadTimeHours   float64 `json:"median_lead_time_hours"`
	MeanLeadTimeHours     float64 `json:"mean_lead_time_hours"`
	MedianReviewTimeHours float64 `json:"median_review_time_hours"`
	MeanReviewTimeHours   float64 `json:"mean_review_time_hours"`
}

// Summarize rolls up a record set. Returns nil for empty input. Lead time is
// closure minus first commit, review time is first review minus publication;
// only records with both endpoints present contribute to each statistic.
func Summarize(records []PullRequest) *Summary {
	return summarizeAt(records, time.Now())
}

func summarizeAt(records []PullRequest, now time.Time) *Summary {
	if len(records) == 0 {
		return nil
	}

	s := &Summary{Count: len(records)}
	var leadHours, reviewHours []float64
	for _, pr := range records {
		if pr.ClosedAt != nil && pr.State != "open" {
			s.Merged++
		}
		if pr.State == "open" {
			s.Open++
			if pr.CreatedAt != nil && now.Sub(*pr.CreatedAt) > staleAfter {
				s.StaleOpen++
			}
		}
		if pr.ClosedAt != nil && pr.FirstCommitAt != nil {
			leadHours = append(leadHours, pr.ClosedAt.Sub(*pr.FirstCommitAt).Hours())
		}
		if pr.FirstReviewAt != nil && pr.PublishedAt != nil {
			reviewHours = append(reviewHours, pr.FirstReviewAt.Sub(*pr.PublishedAt).Hours())
		}
	}

	s.MedianLeadTimeHours = stats.Round1(stats.Median(leadHours))
	s.MeanLeadTimeHours = stats.Round1(stats.Mean(leadHours))
	s.MedianReviewTimeHours = stats.Round1(stats.Median(reviewHours))
	s.MeanReviewTimeHours = stats.Round1(stats.Mean(reviewHours))
	return s
}
