package ghclient

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v66/github"
)

// AuthError marks a request rejected for bad or missing credentials. Never
// retried.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "github: authentication failed"
	}
	return "github: " + e.Message
}

// RateLimitError carries the upstream-reported reset time. The core never
// backs off on its own; the caller decides what to do with Reset.
type RateLimitError struct {
	Reset time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.Reset.Format(time.RFC3339))
}

// QueryRejectedError means the sanitized query was still refused server-side.
// Detail is the first error detail the upstream reported.
type QueryRejectedError struct {
	Detail string
}

func (e *QueryRejectedError) Error() string {
	return "github: query rejected: " + e.Detail
}

// UpstreamError covers every other failure status.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("github: request failed with status %d", e.Status)
	}
	return fmt.Sprintf("github: %s (status %d)", e.Message, e.Status)
}

// MapError reclassifies a go-github error into the module's typed taxonomy.
// A nil input stays nil; unknown error shapes pass through unchanged so
// transport-level failures (DNS, context cancellation) keep their identity.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		return &RateLimitError{Reset: rle.Rate.Reset.Time}
	}
	var arle *github.AbuseRateLimitError
	if errors.As(err, &arle) {
		reset := time.Now()
		if arle.RetryAfter != nil {
			reset = reset.Add(*arle.RetryAfter)
		}
		return &RateLimitError{Reset: reset}
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		return mapErrorResponse(ghErr)
	}
	return err
}

func mapErrorResponse(ghErr *github.ErrorResponse) error {
	status := 0
	if ghErr.Response != nil {
		status = ghErr.Response.StatusCode
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Message: ghErr.Message}
	case http.StatusUnprocessableEntity:
		detail := ghErr.Message
		if len(ghErr.Errors) > 0 && ghErr.Errors[0].Message != "" {
			detail = ghErr.Errors[0].Message
		}
		return &QueryRejectedError{Detail: detail}
	default:
		return &UpstreamError{Status: status, Message: ghErr.Message}
	}
}
