package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ranjgith-s/github-pr-analyzer/internal/suggest"
)

type SuggestService interface {
	Suggestions(ctx context.Context, in suggest.Input) []suggest.Suggestion
}

type SuggestQueryHandler struct {
	Service SuggestService
}

func (h *SuggestQueryHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	query, _ := args["query"].(string)
	cursor := len(query)
	if raw, ok := args["cursor"].(float64); ok {
		cursor = int(raw)
	}

	suggestions := h.Service.Suggestions(ctx, suggest.Input{Query: query, CursorPosition: cursor})
	return mcp.NewToolResultText(string(mustMarshal(suggestions))), nil
}
