package mcp

import (
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ranjgith-s/github-pr-analyzer/internal/config"
	"github.com/ranjgith-s/github-pr-analyzer/internal/devscore"
	"github.com/ranjgith-s/github-pr-analyzer/internal/ghclient"
	"github.com/ranjgith-s/github-pr-analyzer/internal/logging"
	"github.com/ranjgith-s/github-pr-analyzer/internal/mcp/tools"
	"github.com/ranjgith-s/github-pr-analyzer/internal/metrics"
	"github.com/ranjgith-s/github-pr-analyzer/internal/repoinsights"
	"github.com/ranjgith-s/github-pr-analyzer/internal/suggest"
)

type Config struct {
	ToolAdapters map[string]ToolAdapter
	Options      []server.StreamableHTTPOption
}

func DefaultConfig() Config {
	token := config.GitHubToken()
	if token == "" {
		log.Fatal("github_token is required")
	}

	baseLogger := logging.Default(config.LogLevel())
	client := ghclient.New(token)

	searcher := &metrics.GitHubSearcher{Client: client}
	details := ghclient.NewBatchClient(token, config.GraphQLEndpoint())

	metricsService := metrics.NewService(metrics.Deps{
		Search:        searcher,
		Details:       details,
		Commits:       &metrics.GitHubCommitLister{Client: client},
		Identity:      &metrics.GitHubIdentity{Client: client},
		Log:           logging.New(baseLogger.WithName("metrics")),
		ResultTTL:     config.SearchResultTTL(),
		CacheCapacity: config.CacheCapacity(),
	})
	scoreService := devscore.NewService(searcher, details, logging.New(baseLogger))
	insightsService := repoinsights.NewService(client, logging.New(baseLogger))
	suggestFactory := suggest.NewFactory(logging.New(baseLogger))

	return Config{
		ToolAdapters: map[string]ToolAdapter{
			"search_prs":        &tools.SearchPRsHandler{Service: metricsService},
			"suggest_query":     &tools.SuggestQueryHandler{Service: suggestFactory.Engine(token)},
			"validate_query":    &tools.ValidateQueryHandler{},
			"developer_metrics": &tools.DeveloperMetricsHandler{Service: scoreService},
			"repo_insights":     &tools.RepoInsightsHandler{Service: insightsService},
		},
		Options: []server.StreamableHTTPOption{
			server.WithEndpointPath("/mcp/jsonrpc"),
			server.WithStateLess(true),
		},
	}
}
