package rag_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akolanti/FaqSearch/internal/data/redisStore"
	"github.com/akolanti/FaqSearch/internal/data/searchCache"
	"github.com/akolanti/FaqSearch/internal/domain/policyModel"
	"github.com/akolanti/FaqSearch/internal/domain/ragError"
	"github.com/akolanti/FaqSearch/internal/rag"
	"github.com/akolanti/FaqSearch/internal/rag/embedding"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSearch_ValidationRejectsBeforeAnyCall(t *testing.T) {
	tests := []struct {
		name  string
		query string
		topK  int
	}{
		{"Empty_Query", "", 3},
		{"Whitespace_Query", "   \t ", 3},
		{"Zero_TopK", "valid question", 0},
		{"Negative_TopK", "valid question", -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mStore := &MockStore{}
			s := rag.NewService(mStore, mEmbed, nil, nil)

			_, err := s.Search(context.Background(), tt.query, tt.topK)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !ragError.IsKind(err, ragError.KindValidation) {
				t.Errorf("error kind got %v, want validation", ragError.KindOf(err))
			}
			if mEmbed.EmbedCalls != 0 || mStore.QueryCalls != 0 {
				t.Errorf("no network calls may happen on validation failure, got embed=%d query=%d",
					mEmbed.EmbedCalls, mStore.QueryCalls)
			}
		})
	}
}

func TestSearch_UsesQueryIntent(t *testing.T) {
	mEmbed := &MockEmbedder{}
	s := rag.NewService(&MockStore{}, mEmbed, nil, nil)

	if _, err := s.Search(context.Background(), "what is the refund policy", 3); err != nil {
		t.Fatal(err)
	}

	if len(mEmbed.Intents) != 1 || mEmbed.Intents[0] != embedding.IntentQuery {
		t.Errorf("retrieval must embed with query intent, got %v", mEmbed.Intents)
	}
}

func TestSearch_TopKOrderingAndFormatting(t *testing.T) {
	mStore := &MockStore{
		OnQuery: func(ctx context.Context, v []float32, topK int, meta bool) ([]policyModel.Match, error) {
			//index adapter output, one entry missing its metadata
			return []policyModel.Match{
				{Score: 0.51234567, Source: "returns.pdf", Preview: "second"},
				{Score: 0.93129999, Source: "refund-policy.pdf", Preview: "first"},
				{Score: 0.20000001, Source: "", Preview: ""},
			}, nil
		},
	}
	s := rag.NewService(mStore, &MockEmbedder{}, nil, nil)

	results, err := s.Search(context.Background(), "refunds", 3)
	if err != nil {
		t.Fatal(err)
	}

	if mStore.LastTopK != 3 {
		t.Errorf("topK passed to index got %d, want 3", mStore.LastTopK)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not in descending score order at %d", i)
		}
	}
	if results[0].Score != 0.9313 || results[1].Score != 0.5123 {
		t.Errorf("scores not rounded to 4 decimals: %v, %v", results[0].Score, results[1].Score)
	}
	if results[2].Source != "Unknown" {
		t.Errorf("missing source should default to Unknown, got %q", results[2].Source)
	}
	if results[2].Content != "" {
		t.Errorf("missing preview should default to empty, got %q", results[2].Content)
	}
}

func TestSearch_FewerResultsThanTopK(t *testing.T) {
	mStore := &MockStore{
		OnQuery: func(ctx context.Context, v []float32, topK int, meta bool) ([]policyModel.Match, error) {
			return []policyModel.Match{{Score: 0.7, Source: "only.pdf", Preview: "the only record"}}, nil
		},
	}
	s := rag.NewService(mStore, &MockEmbedder{}, nil, nil)

	results, err := s.Search(context.Background(), "anything", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("expected the 1 existing record, got %d", len(results))
	}
}

func TestSearch_FailurePropagation(t *testing.T) {
	tests := []struct {
		name         string
		setupMocks   func(e *MockEmbedder, s *MockStore)
		expectedKind ragError.Kind
	}{
		{
			name: "Embedding_Failure",
			setupMocks: func(e *MockEmbedder, s *MockStore) {
				e.OnEmbed = func(ctx context.Context, texts []string, intent embedding.Intent) ([][]float32, error) {
					return nil, ragError.Wrap(ragError.KindEmbedding, "embed", errors.New("api limit"))
				}
			},
			expectedKind: ragError.KindEmbedding,
		},
		{
			name: "Index_Failure",
			setupMocks: func(e *MockEmbedder, s *MockStore) {
				s.OnQuery = func(ctx context.Context, v []float32, topK int, meta bool) ([]policyModel.Match, error) {
					return nil, ragError.Wrap(ragError.KindIndex, "query", errors.New("db timeout"))
				}
			},
			expectedKind: ragError.KindIndex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mStore := &MockStore{}
			tt.setupMocks(mEmbed, mStore)

			s := rag.NewService(mStore, mEmbed, nil, nil)
			_, err := s.Search(context.Background(), "test question", 3)
			if err == nil {
				t.Fatal("expected error")
			}
			if !ragError.IsKind(err, tt.expectedKind) {
				t.Errorf("error kind got %v, want %v", ragError.KindOf(err), tt.expectedKind)
			}
		})
	}
}

func TestSearch_CacheHitSkipsBackends(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := searchCache.New(redisStore.NewTestStore(client), time.Minute)

	cached := []policyModel.SearchResult{{Score: 0.99, Source: "cached.pdf", Content: "from cache"}}
	if err := cache.Save(context.Background(), "refund policy", 3, cached); err != nil {
		t.Fatal(err)
	}

	mEmbed := &MockEmbedder{}
	mStore := &MockStore{}
	s := rag.NewService(mStore, mEmbed, cache, nil)

	results, err := s.Search(context.Background(), "refund policy", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Source != "cached.pdf" {
		t.Errorf("expected cached results, got %+v", results)
	}
	if mEmbed.EmbedCalls != 0 || mStore.QueryCalls != 0 {
		t.Errorf("cache hit must not call backends, got embed=%d query=%d", mEmbed.EmbedCalls, mStore.QueryCalls)
	}
}
