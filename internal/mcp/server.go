package mcp

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type ToolAdapter interface {
	ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

type Server struct {
	MCP     *server.MCPServer
	HTTP    *server.StreamableHTTPServer
	Handler http.Handler
}

func New(cfg Config) *Server {
	mcpServer := server.NewMCPServer(
		"github-pr-analyzer",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Register tools with their proper schemas using mcp-go builder pattern
	toolDefinitions := map[string]mcp.Tool{
		"search_prs": mcp.NewTool("search_prs",
			mcp.WithDescription("Search pull requests with GitHub search syntax. Returns normalized PR records with review timelines, change stats and derived state."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("GitHub search query (e.g., 'is:pr author:octocat is:open')"),
			),
			mcp.WithNumber("page",
				mcp.Description("Result page to return (default: 1)"),
			),
			mcp.WithNumber("per_page",
				mcp.Description("Results per page (default: 30, max: 100)"),
			),
			mcp.WithString("sort",
				mcp.Description("Sort field"),
				mcp.Enum("updated", "created", "comments"),
			),
			mcp.WithString("order",
				mcp.Description("Sort order"),
				mcp.Enum("asc", "desc"),
			),
		),
		"suggest_query": mcp.NewTool("suggest_query",
			mcp.WithDescription("Autocomplete suggestions for a partial search query: syntax tokens, users, repositories, labels and full query templates."),
			mcp.WithString("query",
				mcp.Description("The partial query typed so far"),
			),
			mcp.WithNumber("cursor",
				mcp.Description("Cursor position within the query (default: end of query)"),
			),
		),
		"validate_query": mcp.NewTool("validate_query",
			mcp.WithDescription("Validate and sanitize a search query. Returns validity, the sanitized form, errors and warnings."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("The search query to validate"),
			),
			mcp.WithBoolean("realtime",
				mcp.Description("Use relaxed keystroke-time validation (default: false)"),
			),
		),
		"developer_metrics": mcp.NewTool("developer_metrics",
			mcp.WithDescription("Score a developer from their recent pull requests: merge rate, cycle speed, change size, review quality, activity, feedback and issue resolution."),
			mcp.WithString("login",
				mcp.Required(),
				mcp.Description("GitHub login of the developer (e.g., 'octocat')"),
			),
		),
		"repo_insights": mcp.NewTool("repo_insights",
			mcp.WithDescription("Delivery insights for a repository: deployment frequency, lead time, merge time, change failure rate, time to restore and activity counts."),
			mcp.WithString("owner",
				mcp.Required(),
				mcp.Description("Repository owner (user or organization)"),
			),
			mcp.WithString("repo",
				mcp.Required(),
				mcp.Description("Repository name"),
			),
		),
	}

	for name, adapter := range cfg.ToolAdapters {
		tool := toolDefinitions[name]
		mcpServer.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return adapter.ToolAdapter(ctx, req)
		})
	}

	httpServer := server.NewStreamableHTTPServer(mcpServer, cfg.Options...)

	return &Server{
		MCP:     mcpServer,
		HTTP:    httpServer,
		Handler: httpServer,
	}
}
