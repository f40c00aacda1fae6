package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ranjgith-s/github-pr-analyzer/internal/devscore"
)

type DeveloperService interface {
	Metrics(ctx context.Context, login string) (*devscore.Metrics, error)
}

type DeveloperMetricsHandler struct {
	Service DeveloperService
}

func (h *DeveloperMetricsHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	login, _ := args["login"].(string)
	if login == "" {
		return mcp.NewToolResultError("login argument is required"), nil
	}

	metrics, err := h.Service.Metrics(ctx, login)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(mustMarshal(metrics))), nil
}
