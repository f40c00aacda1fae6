package ghclient

import (
	"context"
	"net/http"
	"time"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"github.com/ranjgith-s/github-pr-analyzer/internal/cache"
)

// New returns a GitHub REST client authenticated with token. An empty token
// yields an anonymous client, useful for tests against public data.
func New(token string) *github.Client {
	if token == "" {
		return github.NewClient(&http.Client{Timeout: 30 * time.Second})
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = 30 * time.Second
	return github.NewClient(tc)
}

// Memo hands out REST clients memoized per credential so per-keystroke
// callers (the suggestion engine) do not rebuild the transport chain on every
// call.
type Memo struct {
	clients *cache.Cache[*github.Client]
}

func NewMemo() *Memo {
	return &Memo{clients: cache.New[*github.Client](cache.DefaultCapacity)}
}

// Client returns the memoized client for token, constructing it on first use.
func (m *Memo) Client(token string) *github.Client {
	if c, ok := m.clients.Get(token); ok {
		return c
	}
	c := New(token)
	m.clients.Set(token, c, 0)
	return c
}
