package rag

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/akolanti/FaqSearch/internal/domain/policyModel"
	"github.com/akolanti/FaqSearch/internal/metrics"
	"github.com/akolanti/FaqSearch/internal/rag/embedding"
)

func (s *service) executeCacheCheckStep(ctx context.Context, query string, topK int) ([]policyModel.SearchResult, bool) {
	if s.cache == nil {
		return nil, false
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	return s.cache.Get(ctx, query, topK)
}

func (s *service) executeEmbeddingStep(ctx context.Context, query string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	vectors, err := s.embedder.Embed(ctx, []string{query}, embedding.IntentQuery)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (s *service) executeVectorSearchStep(ctx context.Context, queryVector []float32, topK int) ([]policyModel.Match, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	return s.vectorDB.Query(ctx, queryVector, topK, true)
}

func toSearchResults(matches []policyModel.Match) []policyModel.SearchResult {
	results := make([]policyModel.SearchResult, 0, len(matches))
	for _, match := range matches {
		source := match.Source
		if source == "" {
			source = "Unknown"
		}
		results = append(results, policyModel.SearchResult{
			Score:   roundScore(match.Score),
			Source:  source,
			Content: match.Preview,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func roundScore(score float32) float64 {
	return math.Round(float64(score)*10000) / 10000
}
