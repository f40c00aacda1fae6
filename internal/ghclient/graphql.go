package ghclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// BatchSize caps how many pull-request detail look-ups are merged into one
// GraphQL round trip via index-aliased sub-queries.
const BatchSize = 20

const defaultGraphQLEndpoint = "https://api.github.com/graphql"

// PRRef identifies one pull request for a batched detail look-up.
type PRRef struct {
	Owner  string
	Repo   string
	Number int
}

// Review is one review submission on a pull request.
type Review struct {
	Author      string
	State       string
	SubmittedAt *time.Time
}

// Detail is the full pull-request record resolved from a batched GraphQL
// query. FirstCommitAt comes from the pull request's own first commit and
// serves as the fallback commit timestamp when the REST commit list is empty.
type Detail struct {
	Title             string
	URL               string
	Author            string
	State             string
	IsDraft           bool
	CreatedAt         *time.Time
	PublishedAt       *time.Time
	ClosedAt          *time.Time
	MergedAt          *time.Time
	Additions         int
	Deletions         int
	CommentCount      int
	Reviews           []Review
	FirstCommitAt     *time.Time
	ClosingIssueCount int

	// Found is false when the aliased sub-query resolved to null (deleted
	// repository, bad reference). Callers skip such slots.
	Found bool
}

// BatchClient issues alias-indexed GraphQL query documents against the
// GitHub GraphQL endpoint and decodes responses positionally.
type BatchClient struct {
	httpClient *http.Client
	endpoint   string
	token      string
}

// NewBatchClient builds a batch detail client for token. endpoint overrides
// the GitHub GraphQL URL when non-empty (tests point it at a local stub).
func NewBatchClient(token, endpoint string) *BatchClient {
	if endpoint == "" {
		endpoint = defaultGraphQLEndpoint
	}
	return &BatchClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   endpoint,
		token:      token,
	}
}

// Details resolves refs in chunks of BatchSize, preserving input order. The
// returned slice always has len(refs) entries; slots the upstream could not
// resolve have Found set to false.
func (c *BatchClient) Details(ctx context.Context, refs []PRRef) ([]Detail, error) {
	details := make([]Detail, len(refs))
	for start := 0; start < len(refs); start += BatchSize {
		end := start + BatchSize
		if end > len(refs) {
			end = len(refs)
		}
		if err := c.resolveChunk(ctx, refs[start:end], details[start:end]); err != nil {
			return nil, err
		}
	}
	return details, nil
}

func (c *BatchClient) resolveChunk(ctx context.Context, refs []PRRef, out []Detail) error {
	doc := buildBatchDocument(refs)
	body, err := json.Marshal(map[string]string{"query": doc})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := classifyGraphQLResponse(resp.StatusCode, payload); err != nil {
		return err
	}

	for i := range refs {
		node := gjson.GetBytes(payload, fmt.Sprintf("data.pr%d.pullRequest", i))
		if !node.Exists() || node.Type == gjson.Null {
			continue
		}
		out[i] = decodeDetail(node)
	}
	return nil
}

func buildBatchDocument(refs []PRRef) string {
	var b strings.Builder
	b.WriteString("query {\n")
	for i, ref := range refs {
		fmt.Fprintf(&b, "pr%d: repository(owner: %q, name: %q) { pullRequest(number: %d) {\n", i, ref.Owner, ref.Repo, ref.Number)
		b.WriteString(`title url state isDraft createdAt publishedAt closedAt mergedAt
additions deletions totalCommentsCount
author { login }
reviews(first: 50) { nodes { state submittedAt author { login } } }
commits(first: 1) { nodes { commit { committedDate } } }
closingIssuesReferences(first: 1) { totalCount }
} }
`)
	}
	b.WriteString("}")
	return b.String()
}

func decodeDetail(node gjson.Result) Detail {
	d := Detail{
		Title:             node.Get("title").String(),
		URL:               node.Get("url").String(),
		Author:            node.Get("author.login").String(),
		State:             node.Get("state").String(),
		IsDraft:           node.Get("isDraft").Bool(),
		CreatedAt:         parseTime(node.Get("createdAt")),
		PublishedAt:       parseTime(node.Get("publishedAt")),
		ClosedAt:          parseTime(node.Get("closedAt")),
		MergedAt:          parseTime(node.Get("mergedAt")),
		Additions:         int(node.Get("additions").Int()),
		Deletions:         int(node.Get("deletions").Int()),
		CommentCount:      int(node.Get("totalCommentsCount").Int()),
		FirstCommitAt:     parseTime(node.Get("commits.nodes.0.commit.committedDate")),
		ClosingIssueCount: int(node.Get("closingIssuesReferences.totalCount").Int()),
		Found:             true,
	}
	node.Get("reviews.nodes").ForEach(func(_, r gjson.Result) bool {
		d.Reviews = append(d.Reviews, Review{
			Author:      r.Get("author.login").String(),
			State:       r.Get("state").String(),
			SubmittedAt: parseTime(r.Get("submittedAt")),
		})
		return true
	})
	return d
}

func parseTime(v gjson.Result) *time.Time {
	if !v.Exists() || v.Type == gjson.Null || v.String() == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v.String())
	if err != nil {
		return nil
	}
	return &t
}

// classifyGraphQLResponse maps a response to the error taxonomy. The upstream
// reports per-alias failures (a deleted repository in the batch) as an errors
// array next to the partial data object; that is not a rejection, the
// unresolved aliases simply stay Found=false. Only errors without any usable
// data reject the document.
func classifyGraphQLResponse(status int, payload []byte) error {
	switch status {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Message: gjson.GetBytes(payload, "message").String()}
	default:
		return &UpstreamError{Status: status, Message: gjson.GetBytes(payload, "message").String()}
	}
	if errs := gjson.GetBytes(payload, "errors"); errs.Exists() && len(errs.Array()) > 0 {
		if data := gjson.GetBytes(payload, "data"); !data.Exists() || data.Type == gjson.Null {
			return &QueryRejectedError{Detail: errs.Array()[0].Get("message").String()}
		}
	}
	return nil
}
