package rag_test

import (
	"context"

	"github.com/akolanti/FaqSearch/internal/domain/policyModel"
	"github.com/akolanti/FaqSearch/internal/rag/embedding"
)

// MockStore implements vectorDB.Store
type MockStore struct {
	QueryCalls  int
	LastTopK    int
	OnQuery     func(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]policyModel.Match, error)
	OnUpsert    func(ctx context.Context, records []policyModel.IndexRecord) (int, []policyModel.BatchResult, error)
	PruneCalls  int
	UpsertCalls int
}

func (m *MockStore) EnsureCollection(ctx context.Context) error { return nil }

func (m *MockStore) Upsert(ctx context.Context, records []policyModel.IndexRecord) (int, []policyModel.BatchResult, error) {
	m.UpsertCalls++
	if m.OnUpsert != nil {
		return m.OnUpsert(ctx, records)
	}
	return len(records), nil, nil
}

func (m *MockStore) Query(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]policyModel.Match, error) {
	m.QueryCalls++
	m.LastTopK = topK
	if m.OnQuery != nil {
		return m.OnQuery(ctx, vector, topK, includeMetadata)
	}
	return []policyModel.Match{{Score: 0.9, Source: "default.pdf", Preview: "default preview"}}, nil
}

func (m *MockStore) PruneStale(ctx context.Context, source string, fromIndex int) error {
	m.PruneCalls++
	return nil
}

func (m *MockStore) Close() error { return nil }

// MockEmbedder implements embedding.Embedder and records the intent of
// every call so tests can assert the query/document asymmetry.
type MockEmbedder struct {
	EmbedCalls int
	Intents    []embedding.Intent
	OnEmbed    func(ctx context.Context, texts []string, intent embedding.Intent) ([][]float32, error)
}

func (m *MockEmbedder) Embed(ctx context.Context, texts []string, intent embedding.Intent) ([][]float32, error) {
	m.EmbedCalls++
	m.Intents = append(m.Intents, intent)
	if m.OnEmbed != nil {
		return m.OnEmbed(ctx, texts, intent)
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{0.1, 0.2, 0.3}
	}
	return vectors, nil
}

func (m *MockEmbedder) Dimension() int32 { return 3 }
