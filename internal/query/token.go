package query

import "strings"

// TokenKind classifies a single token of the search query DSL.
type TokenKind int

const (
	// TokenQualifier is a key:value pair such as author:john or -is:draft.
	TokenQualifier TokenKind = iota
	// TokenOperator is a boolean operator (AND, OR, NOT) or parenthesis.
	TokenOperator
	// TokenTerm is a bare search word.
	TokenTerm
)

// Token is one lexed unit of a query string. Qualifier tokens carry the key
// (without the negation dash) and the unquoted value.
type Token struct {
	Kind    TokenKind
	Key     string
	Value   string
	Negated bool
	Raw     string
}

// Tokenize splits a query string into typed tokens. Quoted values keep their
// embedded spaces, so label:"help wanted" is a single qualifier token. An
// unterminated quote consumes the rest of the input; quote balance is the
// validator's concern.
func Tokenize(query string) []Token {
	var tokens []Token
	for _, raw := range splitFields(query) {
		tokens = append(tokens, classify(raw))
	}
	return tokens
}

func splitFields(query string) []string {
	var fields []string
	var b strings.Builder
	inQuote := false
	for _, r := range query {
		switch {
		case r == '"':
			inQuote = !inQuote
			b.WriteRune(r)
		case (r == ' ' || r == '\t' || r == '\n') && !inQuote:
			if b.Len() > 0 {
				fields = append(fields, b.String())
				b.Reset()
			}
		case (r == '(' || r == ')') && !inQuote:
			// Parentheses lex as their own tokens even when glued to a
			// neighbor, so (author:john) yields three tokens.
			if b.Len() > 0 {
				fields = append(fields, b.String())
				b.Reset()
			}
			fields = append(fields, string(r))
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() > 0 {
		fields = append(fields, b.String())
	}
	return fields
}

func classify(raw string) Token {
	switch raw {
	case "AND", "OR", "NOT", "(", ")":
		return Token{Kind: TokenOperator, Raw: raw}
	}

	body := raw
	negated := false
	if strings.HasPrefix(body, "-") {
		negated = true
		body = body[1:]
	}

	if idx := strings.Index(body, ":"); idx > 0 && isQualifierKey(body[:idx]) {
		return Token{
			Kind:    TokenQualifier,
			Key:     body[:idx],
			Value:   strings.Trim(body[idx+1:], `"`),
			Negated: negated,
			Raw:     raw,
		}
	}
	return Token{Kind: TokenTerm, Raw: raw}
}

func isQualifierKey(key string) bool {
	for _, r := range key {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '-'
		if !ok {
			return false
		}
	}
	return key != ""
}
