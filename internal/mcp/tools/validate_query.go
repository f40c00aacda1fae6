package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ranjgith-s/github-pr-analyzer/internal/query"
)

type ValidateQueryHandler struct{}

func (h *ValidateQueryHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	q, _ := args["query"].(string)

	var result query.ValidationResult
	if realtime, _ := args["realtime"].(bool); realtime {
		result = query.ValidateRealtime(q)
	} else {
		result = query.Validate(q)
	}
	return mcp.NewToolResultText(string(mustMarshal(result))), nil
}
