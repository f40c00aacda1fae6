package suggest

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/ranjgith-s/github-pr-analyzer/internal/logging"
)

// MaxSuggestions caps the ranked list returned per keystroke.
const MaxSuggestions = 10

// Lookup resolves remote autocomplete candidates. Implementations are free to
// fail; the engine downgrades every lookup error to a shorter list.
type Lookup interface {
	SearchUsers(ctx context.Context, partial string) ([]string, error)
	Repositories(ctx context.Context) ([]string, error)
}

// Input is one keystroke context.
type Input struct {
	Query          string
	CursorPosition int
}

// Engine produces context-aware autocomplete suggestions for the search query
// DSL. Remote look-ups are best-effort by contract: a failed call trims the
// list, it never surfaces an error.
type Engine struct {
	lookup Lookup
	log    logging.Logger
}

func NewEngine(lookup Lookup, log logging.Logger) *Engine {
	return &Engine{lookup: lookup, log: log.WithName("suggest")}
}

// Suggestions returns up to MaxSuggestions candidates for the cursor context:
// curated templates on a blank slate, qualifier-specific values when the
// cursor sits in a value position, generic syntax tokens otherwise.
func (e *Engine) Suggestions(ctx context.Context, in Input) []Suggestion {
	cursor := in.CursorPosition
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(in.Query) {
		cursor = len(in.Query)
	}
	// CursorPosition is a byte offset; snap it down so a cursor landing
	// inside a multi-byte rune never splits it.
	for cursor > 0 && cursor < len(in.Query) && !utf8.RuneStart(in.Query[cursor]) {
		cursor--
	}
	upToCursor := in.Query[:cursor]
	currentWord := trailingWord(upToCursor)

	var out []Suggestion

	trimmed := strings.TrimSpace(in.Query)
	if trimmed == "" || trimmed == "is:pr" {
		out = append(out, filterByWord(curatedData.Templates, currentWord)...)
	}

	out = append(out, e.valueContext(ctx, currentWord)...)

	if showSyntax(upToCursor, currentWord) {
		out = append(out, filterByWord(curatedData.Syntax, currentWord)...)
	}

	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

// valueContext matches the text before the cursor against qualifier prefixes
// that expect a value and fetches the matching candidates.
func (e *Engine) valueContext(ctx context.Context, currentWord string) []Suggestion {
	switch {
	case strings.HasPrefix(currentWord, "author:"):
		return e.userSuggestions(ctx, "author:", strings.TrimPrefix(currentWord, "author:"))
	case strings.HasPrefix(currentWord, "reviewed-by:"):
		return e.userSuggestions(ctx, "reviewed-by:", strings.TrimPrefix(currentWord, "reviewed-by:"))
	case strings.HasPrefix(currentWord, "repo:"):
		return e.repoSuggestions(ctx, strings.TrimPrefix(currentWord, "repo:"))
	case strings.HasPrefix(currentWord, `label:"`):
		return labelSuggestions(strings.TrimPrefix(currentWord, `label:"`))
	case strings.HasPrefix(currentWord, "label:"):
		return labelSuggestions(strings.TrimPrefix(currentWord, "label:"))
	}
	return nil
}

func (e *Engine) userSuggestions(ctx context.Context, prefix, partial string) []Suggestion {
	out := []Suggestion{{
		Type:        TypeUser,
		Value:       "@me",
		Display:     "@me",
		Description: "The authenticated user",
		InsertText:  prefix + "@me",
	}}
	if partial == "" || partial == "@me" {
		return out
	}
	logins, err := e.lookup.SearchUsers(ctx, partial)
	if err != nil {
		e.log.Debug("user lookup failed, degrading", "partial", partial, "error", err.Error())
		return out
	}
	for _, login := range logins {
		out = append(out, Suggestion{
			Type:       TypeUser,
			Value:      login,
			Display:    login,
			InsertText: prefix + login,
		})
	}
	return out
}

func (e *Engine) repoSuggestions(ctx context.Context, partial string) []Suggestion {
	repos, err := e.lookup.Repositories(ctx)
	if err != nil {
		e.log.Debug("repository lookup failed, degrading", "error", err.Error())
		return nil
	}
	var out []Suggestion
	needle := strings.ToLower(partial)
	for _, repo := range repos {
		if needle != "" && !strings.Contains(strings.ToLower(repo), needle) {
			continue
		}
		out = append(out, Suggestion{
			Type:       TypeRepository,
			Value:      repo,
			Display:    repo,
			InsertText: "repo:" + repo,
		})
	}
	return out
}

func labelSuggestions(partial string) []Suggestion {
	needle := strings.ToLower(strings.TrimSuffix(partial, `"`))
	var out []Suggestion
	for _, label := range curatedData.Labels {
		if needle != "" && !strings.Contains(strings.ToLower(label), needle) {
			continue
		}
		out = append(out, Suggestion{
			Type:       TypeLabel,
			Value:      label,
			Display:    label,
			InsertText: `label:"` + label + `"`,
		})
	}
	return out
}

// showSyntax decides whether generic syntax suggestions belong in the list:
// yes at the start of the query, after whitespace, after a logical operator,
// or while typing a prefix of a known syntax token that is not already a
// qualifier value.
func showSyntax(upToCursor, currentWord string) bool {
	if upToCursor == "" {
		return true
	}
	if currentWord == "" {
		last := upToCursor[len(upToCursor)-1]
		return last == ' ' || last == '\t'
	}
	if isOperatorWord(currentWord) {
		return true
	}
	if isValueTyping(currentWord) {
		return false
	}
	lower := strings.ToLower(currentWord)
	for _, s := range curatedData.Syntax {
		if strings.HasPrefix(strings.ToLower(s.Value), lower) {
			return true
		}
	}
	return false
}

// isValueTyping reports whether the word looks like key:partial, i.e. the
// user is already typing a qualifier value.
func isValueTyping(word string) bool {
	body := strings.TrimPrefix(word, "-")
	idx := strings.Index(body, ":")
	return idx > 0 && idx < len(body)-1
}

func isOperatorWord(word string) bool {
	switch strings.ToUpper(word) {
	case "AND", "OR", "NOT":
		return true
	}
	return false
}

func trailingWord(s string) string {
	if i := strings.LastIndexAny(s, " \t"); i >= 0 {
		return s[i+1:]
	}
	return s
}

func filterByWord(candidates []Suggestion, word string) []Suggestion {
	if word == "" {
		return append([]Suggestion(nil), candidates...)
	}
	needle := strings.ToLower(word)
	var out []Suggestion
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.Value), needle) ||
			strings.Contains(strings.ToLower(c.Display), needle) {
			out = append(out, c)
		}
	}
	return out
}
