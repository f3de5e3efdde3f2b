package mcpServer

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type SearchFaqInput struct {
	Query string `json:"query" jsonschema:"Question or text to search for in company policies."`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_faq",
		Description: "Search uploaded policy PDFs for answers to questions.",
	}, s.handleSearchFaq)
}

// handleSearchFaq returns the matches as plain text blocks. Failures come
// back as an error result instead of a protocol error so the calling agent
// can read them and rephrase.
func (s *Server) handleSearchFaq(ctx context.Context, _ *mcp.CallToolRequest, input SearchFaqInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(input.Query) == "" {
		return errorResult("Missing 'query' parameter"), nil, nil
	}

	results, err := s.service.Search(ctx, input.Query, s.topK)
	if err != nil {
		s.logger.Warn("search_faq failed", "error", err)
		return errorResult(err.Error()), nil, nil
	}

	if len(results) == 0 {
		return textResult("No results found."), nil, nil
	}

	formatted := make([]string, 0, len(results))
	for _, r := range results {
		formatted = append(formatted, fmt.Sprintf(
			"Score: %.4f\nSource: %s\nPreview: %s\n", r.Score, r.Source, r.Content))
	}
	return textResult(strings.Join(formatted, "\n---\n")), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + message}},
		IsError: true,
	}
}
