package query

import (
	"strings"
	"testing"
)

func TestValidateEmpty(t *testing.T) {
	res := Validate("")
	if res.IsValid {
		t.Fatalf("expected empty query to be invalid")
	}
	if len(res.Errors) != 1 || res.Errors[0] != "Query cannot be empty" {
		t.Fatalf("unexpected errors %v", res.Errors)
	}

	res = Validate("   \t ")
	if res.IsValid {
		t.Fatalf("expected whitespace-only query to be invalid")
	}
}

func TestValidatePrependsIsPR(t *testing.T) {
	res := Validate("author:john")
	if !res.IsValid {
		t.Fatalf("expected valid, errors: %v", res.Errors)
	}
	if res.Sanitized != "is:pr author:john" {
		t.Fatalf("unexpected sanitized query %q", res.Sanitized)
	}
	if len(res.Warnings) != 1 || res.Warnings[0] != `Added "is:pr" qualifier` {
		t.Fatalf("unexpected warnings %v", res.Warnings)
	}
}

func TestValidateLength(t *testing.T) {
	q := "is:pr " + strings.Repeat("a", MaxQueryLength)
	res := Validate(q)
	if res.IsValid {
		t.Fatalf("expected over-length query to be invalid")
	}
}

func TestValidateUnmatchedQuote(t *testing.T) {
	res := Validate(`is:pr label:"bug`)
	if res.IsValid {
		t.Fatalf("expected invalid")
	}
	found := false
	for _, e := range res.Errors {
		if e == "Unmatched quote in query" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected unmatched quote error, got %v", res.Errors)
	}
}

func TestValidateUnmatchedParens(t *testing.T) {
	res := Validate("is:pr (author:john")
	found := false
	for _, e := range res.Errors {
		if e == "Unmatched parentheses in query" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected unmatched parentheses error, got %v", res.Errors)
	}
}

func TestValidateRepeatedOperators(t *testing.T) {
	for _, q := range []string{"is:pr a && b", "is:pr a || b", "is:pr a !! b"} {
		if res := Validate(q); res.IsValid {
			t.Fatalf("expected %q to be invalid", q)
		}
	}
}

func TestValidateLowercaseOr(t *testing.T) {
	res := Validate("is:pr author:john or author:jane")
	if res.IsValid {
		t.Fatalf("expected lowercase or to be rejected")
	}
	if res2 := Validate("is:pr author:john OR author:jane"); !res2.IsValid {
		t.Fatalf("expected uppercase OR to pass, errors: %v", res2.Errors)
	}
}

func TestValidateUnknownQualifier(t *testing.T) {
	res := Validate("is:pr madeup:value")
	if res.IsValid {
		t.Fatalf("expected unknown qualifier to be a hard error")
	}
}

func TestValidateUnknownQualifierInsideParens(t *testing.T) {
	res := Validate("is:pr (madeup:value)")
	if res.IsValid {
		t.Fatalf("expected unknown qualifier inside parentheses to be a hard error")
	}
}

func TestValidateStripsAngleBrackets(t *testing.T) {
	// Sanitization deliberately corrupts date-range operators; this pins the
	// behavior so a future change has to be intentional.
	res := Validate("is:pr created:>2024-01-01")
	if !res.IsValid {
		t.Fatalf("expected valid, errors: %v", res.Errors)
	}
	if res.Sanitized != "is:pr created:2024-01-01" {
		t.Fatalf("expected angle bracket stripped, got %q", res.Sanitized)
	}
}

func TestValidateRealtimeEmpty(t *testing.T) {
	res := ValidateRealtime("")
	if !res.IsValid {
		t.Fatalf("realtime validation must not block an empty editor")
	}
	if len(res.Warnings) == 0 {
		t.Fatalf("expected a warning for the empty query")
	}
}

func TestValidateAndSanitize(t *testing.T) {
	s, err := ValidateAndSanitize("author:john")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "is:pr author:john" {
		t.Fatalf("unexpected sanitized query %q", s)
	}

	if _, err := ValidateAndSanitize(""); err == nil {
		t.Fatalf("expected error for empty query")
	} else if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
}
