package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ranjgith-s/github-pr-analyzer/internal/metrics"
)

type SearchService interface {
	Search(ctx context.Context, query string, opts metrics.Options) (*metrics.SearchResult, error)
}

type SearchPRsHandler struct {
	Service SearchService
}

func (h *SearchPRsHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	query, _ := args["query"].(string)
	if query == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}
	opts := metrics.Options{Page: 1, PerPage: 30, Sort: "updated", Order: "desc"}
	if raw, ok := args["page"].(float64); ok && int(raw) > 0 {
		opts.Page = int(raw)
	}
	if raw, ok := args["per_page"].(float64); ok && int(raw) > 0 {
		opts.PerPage = int(raw)
	}
	if v, ok := args["sort"].(string); ok && v != "" {
		opts.Sort = v
	}
	if v, ok := args["order"].(string); ok && v != "" {
		opts.Order = v
	}

	result, err := h.Service.Search(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(mustMarshal(result))), nil
}
