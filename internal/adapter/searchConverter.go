package adapter

import (
	"github.com/akolanti/FaqSearch/internal/api"
	"github.com/akolanti/FaqSearch/internal/domain/policyModel"
)

func ToSearchResponse(results []policyModel.SearchResult) []api.SearchResultResponse {
	out := make([]api.SearchResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, api.SearchResultResponse{
			Score:   r.Score,
			Source:  r.Source,
			Content: r.Content,
		})
	}
	return out
}

func ToErrorResponse(message string) api.ErrorResponse {
	return api.ErrorResponse{Error: message}
}
