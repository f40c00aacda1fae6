package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ranjgith-s/github-pr-analyzer/internal/repoinsights"
)

type InsightsService interface {
	Insights(ctx context.Context, owner, repo string) (*repoinsights.Insights, error)
}

type RepoInsightsHandler struct {
	Service InsightsService
}

func (h *RepoInsightsHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	owner, _ := args["owner"].(string)
	repo, _ := args["repo"].(string)
	if owner == "" || repo == "" {
		return mcp.NewToolResultError("owner and repo arguments are required"), nil
	}

	insights, err := h.Service.Insights(ctx, owner, repo)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(mustMarshal(insights))), nil
}
