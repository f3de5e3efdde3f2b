package rag

import (
	"context"
	"strings"
	"time"

	"github.com/akolanti/FaqSearch/internal/config"
	"github.com/akolanti/FaqSearch/internal/data/searchCache"
	"github.com/akolanti/FaqSearch/internal/domain/policyModel"
	"github.com/akolanti/FaqSearch/internal/domain/ragError"
	"github.com/akolanti/FaqSearch/internal/metrics"
	"github.com/akolanti/FaqSearch/internal/rag/embedding"
	"github.com/akolanti/FaqSearch/internal/rag/ingest"
	"github.com/akolanti/FaqSearch/internal/rag/vectorDB"
	"github.com/akolanti/FaqSearch/pkg/logger_i"
)

/*
ARCHITECTURE NOTE:

Service is the one retrieval implementation; every transport (HTTP
handler, MCP tool, agent loop, CLI) is a thin adapter over it. The
private struct holds the client handles so transports can't reach the
SDKs directly, and the constructor takes interfaces so tests swap in
fakes without touching transport code.
*/

type Service interface {
	Search(ctx context.Context, query string, topK int) ([]policyModel.SearchResult, error)
	IngestDocuments(ctx context.Context, pattern string, maxChunkTokens int) (policyModel.IngestReport, error)
}

type service struct {
	vectorDB vectorDB.Store
	embedder embedding.Embedder
	cache    *searchCache.Cache //nil disables result caching
	pipeline *ingest.Pipeline
	logger   *logger_i.Logger
}

// NewService constructor
func NewService(store vectorDB.Store, em embedding.Embedder, cache *searchCache.Cache, pipeline *ingest.Pipeline) Service {
	return &service{
		vectorDB: store,
		embedder: em,
		cache:    cache,
		pipeline: pipeline,
		logger:   logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) Search(ctx context.Context, query string, topK int) ([]policyModel.SearchResult, error) {
	const op = "rag.Search"
	log := s.logger.WithTrace(ctx)

	start := time.Now()
	status := "ok"
	defer func() { metrics.CaptureRequestMetrics(status, time.Since(start)) }()

	//validation happens before any cache, embedding or index call
	query = strings.TrimSpace(query)
	if query == "" {
		status = "invalid"
		return nil, ragError.New(ragError.KindValidation, op, "query must not be empty")
	}
	if topK <= 0 {
		status = "invalid"
		return nil, ragError.Newf(ragError.KindValidation, op, "topK must be positive, got %d", topK)
	}

	searchCtx, cancel := context.WithTimeout(ctx, config.SearchTimeout)
	defer cancel()

	if cached, found := s.executeCacheCheckStep(searchCtx, query, topK); found {
		return cached, nil
	}

	queryVector, err := s.executeEmbeddingStep(searchCtx, query)
	if err != nil {
		status = "error"
		log.Error("Query embedding failed", "error", err)
		return nil, err
	}

	matches, err := s.executeVectorSearchStep(searchCtx, queryVector, topK)
	if err != nil {
		status = "error"
		log.Error("Vector search failed", "error", err)
		return nil, err
	}

	results := toSearchResults(matches)
	log.Debug("Search complete", "results", len(results))

	//background cache save, a failure only costs the next lookup
	if s.cache != nil {
		go func() {
			saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.cache.Save(saveCtx, query, topK, results); err != nil {
				s.logger.Error("Failed to save search results to cache", "error", err)
			}
		}()
	}

	return results, nil
}

func (s *service) IngestDocuments(ctx context.Context, pattern string, maxChunkTokens int) (policyModel.IngestReport, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	return s.pipeline.Run(ctx, pattern, maxChunkTokens)
}
