package query

import (
	"strings"
	"time"
)

// FilterState is the structured, editable representation of a search query.
// List fields keep qualifier order and duplicates exactly as typed.
type FilterState struct {
	Authors      []string
	Reviewers    []string
	Repositories []string
	Labels       []string
	Assignees    []string
	Involves     []string

	// State is one of open, closed, merged or all.
	State string

	// IsDraft is tri-state: nil means the query does not constrain draft
	// status, otherwise is:draft / -is:draft.
	IsDraft *bool

	Created DateRange
	Updated DateRange
}

// DateRange bounds a timestamp qualifier. Either side may be nil.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Complexity buckets for a query, used by the UI to pick a result layout.
const (
	ComplexitySimple   = "simple"
	ComplexityModerate = "moderate"
	ComplexityComplex  = "complex"
)

const dateLayout = "2006-01-02"

// Parse extracts a FilterState from a query string. Each qualifier family is
// collected independently; repeated qualifiers accumulate in order without
// de-duplication. Absent fields default to empty lists, state "all" and nil
// bounds.
func Parse(q string) FilterState {
	f := FilterState{State: "all"}
	for _, tok := range Tokenize(q) {
		if tok.Kind != TokenQualifier {
			continue
		}
		switch tok.Key {
		case "author":
			f.Authors = append(f.Authors, tok.Value)
		case "reviewed-by":
			f.Reviewers = append(f.Reviewers, tok.Value)
		case "repo":
			f.Repositories = append(f.Repositories, tok.Value)
		case "label":
			f.Labels = append(f.Labels, tok.Value)
		case "assignee":
			f.Assignees = append(f.Assignees, tok.Value)
		case "involves":
			f.Involves = append(f.Involves, tok.Value)
		case "is":
			switch tok.Value {
			case "open", "closed", "merged":
				f.State = tok.Value
			case "draft":
				v := !tok.Negated
				f.IsDraft = &v
			}
		case "created":
			applyDateBound(&f.Created, tok.Value)
		case "updated":
			applyDateBound(&f.Updated, tok.Value)
		}
	}
	return f
}

func applyDateBound(r *DateRange, value string) {
	if len(value) < 2 {
		return
	}
	op, raw := value[0], value[1:]
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return
	}
	switch op {
	case '>':
		r.Start = &t
	case '<':
		r.End = &t
	}
}

// Build serializes a FilterState back into a query string. Tokens are emitted
// in a fixed order so the output is deterministic: is:pr, authors, reviewers,
// repositories, labels, assignees, involves, state, draft flag, created
// bounds, updated bounds. An all-empty state yields exactly "is:pr".
func Build(f FilterState) string {
	parts := []string{"is:pr"}
	for _, a := range f.Authors {
		parts = append(parts, "author:"+a)
	}
	for _, r := range f.Reviewers {
		parts = append(parts, "reviewed-by:"+r)
	}
	for _, r := range f.Repositories {
		parts = append(parts, "repo:"+r)
	}
	for _, l := range f.Labels {
		parts = append(parts, `label:"`+l+`"`)
	}
	for _, a := range f.Assignees {
		parts = append(parts, "assignee:"+a)
	}
	for _, i := range f.Involves {
		parts = append(parts, "involves:"+i)
	}
	if f.State != "" && f.State != "all" {
		parts = append(parts, "is:"+f.State)
	}
	if f.IsDraft != nil {
		if *f.IsDraft {
			parts = append(parts, "is:draft")
		} else {
			parts = append(parts, "-is:draft")
		}
	}
	parts = appendDateBounds(parts, "created", f.Created)
	parts = appendDateBounds(parts, "updated", f.Updated)
	return strings.Join(parts, " ")
}

func appendDateBounds(parts []string, key string, r DateRange) []string {
	if r.Start != nil {
		parts = append(parts, key+":>"+r.Start.UTC().Format(dateLayout))
	}
	if r.End != nil {
		parts = append(parts, key+":<"+r.End.UTC().Format(dateLayout))
	}
	return parts
}

// Complexity classifies a query: simple for at most four tokens without date
// or boolean operators, moderate when date qualifiers appear or the token
// count exceeds four, complex when boolean operators or parentheses appear or
// the token count exceeds eight.
func Complexity(q string) string {
	tokens := Tokenize(q)
	hasBool := false
	hasDate := false
	for _, tok := range tokens {
		if tok.Kind == TokenOperator && tok.Raw != "NOT" {
			hasBool = true
		}
		if tok.Kind == TokenQualifier && (tok.Key == "created" || tok.Key == "updated") {
			hasDate = true
		}
	}
	switch {
	case hasBool || len(tokens) > 8:
		return ComplexityComplex
	case hasDate || len(tokens) > 4:
		return ComplexityModerate
	default:
		return ComplexitySimple
	}
}
