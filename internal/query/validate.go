package query

import (
	"fmt"
	"strings"
)

// MaxQueryLength is the longest query the upstream search endpoint accepts.
const MaxQueryLength = 256

// ValidationResult reports the outcome of validating one query string.
// Sanitized carries the possibly auto-corrected query regardless of validity.
type ValidationResult struct {
	IsValid   bool     `json:"is_valid"`
	Sanitized string   `json:"sanitized"`
	Errors    []string `json:"errors,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// ValidationError wraps the error list of an invalid query.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "invalid query: " + strings.Join(e.Errors, "; ")
}

var allowedQualifiers = map[string]struct{}{
	"author": {}, "reviewed-by": {}, "repo": {}, "label": {}, "assignee": {},
	"involves": {}, "is": {}, "state": {}, "created": {}, "updated": {},
	"merged": {}, "review": {}, "draft": {}, "size": {}, "user": {},
	"org": {}, "team-review-requested": {}, "review-requested": {},
	"mentions": {}, "commenter": {}, "head": {}, "base": {},
	"comments": {}, "in": {}, "type": {}, "sort": {}, "status": {},
	"language": {}, "no": {}, "archived": {},
}

// Validate checks a query string for syntactic and semantic problems and
// returns a sanitized form. A missing is:pr qualifier is prepended with a
// warning before the length and syntax checks run; angle brackets are
// stripped before the syntax pass.
func Validate(q string) ValidationResult {
	return validate(q, false)
}

// ValidateRealtime behaves like Validate but downgrades an empty query to a
// warning so a live-editing UI is not flagged mid-keystroke.
func ValidateRealtime(q string) ValidationResult {
	return validate(q, true)
}

// ValidateAndSanitize validates q and returns the sanitized query, or a
// *ValidationError when the query is invalid.
func ValidateAndSanitize(q string) (string, error) {
	res := Validate(q)
	if !res.IsValid {
		return "", &ValidationError{Errors: res.Errors}
	}
	return res.Sanitized, nil
}

func validate(q string, realtime bool) ValidationResult {
	res := ValidationResult{}
	trimmed := strings.TrimSpace(q)
	if trimmed == "" {
		if realtime {
			res.IsValid = true
			res.Warnings = append(res.Warnings, "Query is empty")
		} else {
			res.Errors = append(res.Errors, "Query cannot be empty")
		}
		return res
	}

	if !strings.Contains(trimmed, "is:pr") {
		trimmed = "is:pr " + trimmed
		res.Warnings = append(res.Warnings, `Added "is:pr" qualifier`)
	}

	if len(trimmed) > MaxQueryLength {
		res.Errors = append(res.Errors, fmt.Sprintf("Query exceeds maximum length of %d characters", MaxQueryLength))
	}

	// Angle brackets are stripped wholesale, including the ones that spell
	// date-range operators (created:>2024-01-01 becomes created:2024-01-01).
	// Callers that need range semantics must parse before validating.
	sanitized := strings.NewReplacer("<", "", ">", "").Replace(trimmed)
	res.Sanitized = sanitized

	if strings.Count(sanitized, `"`)%2 != 0 {
		res.Errors = append(res.Errors, "Unmatched quote in query")
	}
	if strings.Count(sanitized, "(") != strings.Count(sanitized, ")") {
		res.Errors = append(res.Errors, "Unmatched parentheses in query")
	}
	for _, op := range []string{"&&", "||", "!!"} {
		if strings.Contains(sanitized, op) {
			res.Errors = append(res.Errors, fmt.Sprintf("Repeated operator %q in query", op))
			break
		}
	}

	for _, tok := range Tokenize(sanitized) {
		switch tok.Kind {
		case TokenTerm:
			if strings.EqualFold(tok.Raw, "or") && tok.Raw != "OR" {
				res.Errors = append(res.Errors, "OR operator must be uppercase")
			}
		case TokenQualifier:
			if _, ok := allowedQualifiers[tok.Key]; !ok {
				res.Errors = append(res.Errors, fmt.Sprintf("Unknown qualifier %q", tok.Key))
			}
		}
	}

	res.IsValid = len(res.Errors) == 0
	return res
}
