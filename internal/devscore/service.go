package devscore

import (
	"context"
	"fmt"

	"github.com/ranjgith-s/github-pr-analyzer/internal/ghclient"
	"github.com/ranjgith-s/github-pr-analyzer/internal/logging"
	"github.com/ranjgith-s/github-pr-analyzer/internal/metrics"
	"github.com/ranjgith-s/github-pr-analyzer/internal/stats"
)

// sampleSize caps how many authored and reviewed pull requests feed the
// scores.
const sampleSize = 30

// Metrics are the per-developer contribution metrics plus their normalized
// 0-10 scores.
type Metrics struct {
	Login string `json:"login"`

	AuthoredCount int `json:"authored_count"`
	ReviewedCount int `json:"reviewed_count"`
	MergedCount   int `json:"merged_count"`
	IssuesClosed  int `json:"issues_closed"`

	MergeRate            float64 `json:"merge_rate"`
	MeanChangesRequested float64 `json:"mean_changes_requested"`
	MedianSizeLines      float64 `json:"median_size_lines"`
	MedianMergeLeadHours float64 `json:"median_merge_lead_hours"`
	MeanComments         float64 `json:"mean_comments"`

	Scores Scores `json:"scores"`
}

// Scores are the normalized 0-10 values, each produced by a fixed linear
// transform and rounded to two decimals.
type Scores struct {
	MergeRate  float64 `json:"merge_rate"`
	Speed      float64 `json:"speed"`
	Size       float64 `json:"size"`
	Quality    float64 `json:"quality"`
	Activity   float64 `json:"activity"`
	Feedback   float64 `json:"feedback"`
	Resolution float64 `json:"resolution"`
}

// Service computes developer metrics from search stubs and batched detail
// look-ups.
type Service struct {
	search  metrics.Searcher
	details metrics.DetailFetcher
	log     logging.Logger
}

func NewService(search metrics.Searcher, details metrics.DetailFetcher, log logging.Logger) *Service {
	return &Service{search: search, details: details, log: log.WithName("devscore")}
}

// Metrics derives the contribution metrics for one login. Details are fetched
// for authored pull requests only; the reviewed sample contributes just its
// count.
func (s *Service) Metrics(ctx context.Context, login string) (*Metrics, error) {
	authored, err := s.stubs(ctx, fmt.Sprintf("is:pr author:%s", login))
	if err != nil {
		return nil, err
	}
	reviewed, err := s.stubs(ctx, fmt.Sprintf("is:pr reviewed-by:%s", login))
	if err != nil {
		return nil, err
	}

	var refs []ghclient.PRRef
	for _, stub := range authored {
		owner, name, err := ghclient.SplitRepoURL(stub.RepositoryURL)
		if err != nil {
			continue
		}
		refs = append(refs, ghclient.PRRef{Owner: owner, Repo: name, Number: stub.Number})
	}

	var details []ghclient.Detail
	if len(refs) > 0 {
		details, err = s.details.Details(ctx, refs)
		if err != nil {
			return nil, err
		}
	}

	m := derive(login, details, len(reviewed))
	s.log.Debug("computed developer metrics", "login", login,
		"authored", m.AuthoredCount, "reviewed", m.ReviewedCount)
	return m, nil
}

func (s *Service) stubs(ctx context.Context, q string) ([]metrics.SearchStub, error) {
	page, err := s.search.Search(ctx, q, metrics.Options{
		Page: 1, PerPage: sampleSize, Sort: "updated", Order: "desc",
	})
	if err != nil {
		return nil, ghclient.MapError(err)
	}
	return page.Items, nil
}

// derive maps the raw samples onto metrics and scores. Pure so the transforms
// stay testable without network fixtures.
func derive(login string, details []ghclient.Detail, reviewedCount int) *Metrics {
	m := &Metrics{Login: login, ReviewedCount: reviewedCount}

	var sizes, leadHours, changesRequested, comments []float64
	for _, d := range details {
		if !d.Found {
			continue
		}
		m.AuthoredCount++
		sizes = append(sizes, float64(d.Additions+d.Deletions))
		comments = append(comments, float64(d.CommentCount))
		m.IssuesClosed += d.ClosingIssueCount

		requested := 0
		for _, r := range d.Reviews {
			if r.State == "CHANGES_REQUESTED" {
				requested++
			}
		}
		changesRequested = append(changesRequested, float64(requested))

		if d.MergedAt != nil {
			m.MergedCount++
			if d.CreatedAt != nil {
				leadHours = append(leadHours, d.MergedAt.Sub(*d.CreatedAt).Hours())
			}
		}
	}

	if m.AuthoredCount > 0 {
		m.MergeRate = float64(m.MergedCount) / float64(m.AuthoredCount)
	}
	m.MeanChangesRequested = stats.Mean(changesRequested)
	m.MedianSizeLines = stats.Median(sizes)
	m.MedianMergeLeadHours = stats.Median(leadHours)
	m.MeanComments = stats.Mean(comments)

	m.Scores = Scores{
		MergeRate:  stats.Round2(clamp(m.MergeRate * 10)),
		Speed:      stats.Round2(floor0(10 - m.MedianMergeLeadHours/12)),
		Size:       stats.Round2(floor0(10 - m.MedianSizeLines/100)),
		Quality:    stats.Round2(floor0(10 - m.MeanChangesRequested*5)),
		Activity:   stats.Round2(cap10(float64(m.ReviewedCount))),
		Feedback:   stats.Round2(cap10(m.MeanComments)),
		Resolution: stats.Round2(cap10(float64(m.IssuesClosed))),
	}
	return m
}

func floor0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func cap10(v float64) float64 {
	if v > 10 {
		return 10
	}
	return v
}

func clamp(v float64) float64 {
	return cap10(floor0(v))
}
