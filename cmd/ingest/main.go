package main

import (
	"context"
	"flag"
	"os"

	"github.com/akolanti/FaqSearch/internal/config"
	"github.com/akolanti/FaqSearch/internal/customHttpClient"
	"github.com/akolanti/FaqSearch/internal/rag"
	"github.com/akolanti/FaqSearch/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/FaqSearch/internal/rag/ingest"
	"github.com/akolanti/FaqSearch/internal/rag/tokenizer"
	"github.com/akolanti/FaqSearch/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/FaqSearch/pkg/logger_i"
)

var (
	pattern   string
	maxTokens int
)

func main() {

	cfg := config.Load()
	logger_i.Init(cfg.IsProd, cfg.LogLevel)
	var logger = logger_i.NewLogger("main")

	flag.StringVar(&pattern, "pattern", "policies/*.pdf", "glob pattern of documents to ingest")
	flag.IntVar(&maxTokens, "max-tokens", cfg.MaxChunkTokens, "max tokens per chunk")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	vectorStore, err := qdrantDB.New(cfg)
	if err != nil {
		logger.Error("Qdrant failed to initialize. Shutting down.", "error", err)
		os.Exit(1)
	}
	defer vectorStore.Close()

	if err := vectorStore.EnsureCollection(serviceContext); err != nil {
		logger.Error("Could not ensure the collection exists", "error", err)
		os.Exit(1)
	}

	embedder, err := googleEmbedding.NewClient(serviceContext, cfg.GeminiAPIKey, cfg.GoogleEmbeddingModel,
		cfg.EmbeddingDimension, customHttpClient.NewPooledClient())
	if err != nil {
		logger.Error("Embedding client failed to initialize. Shutting down.", "error", err)
		os.Exit(1)
	}

	codec, err := tokenizer.NewTiktokenCodec(cfg.TokenEncoding)
	if err != nil {
		logger.Error("Tokenizer failed to initialize", "encoding", cfg.TokenEncoding, "error", err)
		os.Exit(1)
	}

	pipeline := ingest.NewPipeline(embedder, vectorStore, codec, cfg.ChunkOverlapTokens, cfg.IngestWorkers)
	ragService := rag.NewService(vectorStore, embedder, nil, pipeline)

	report, err := ragService.IngestDocuments(serviceContext, pattern, maxTokens)
	if err != nil {
		logger.Error("Ingestion failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Ingestion finished",
		"processed", report.Processed,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"chunks", report.TotalChunks,
		"records", report.TotalRecords,
		"failedBatches", report.FailedBatches,
	)
	for _, doc := range report.Documents {
		logger.Info("Document report", "source", doc.Source, "status", doc.Status, "chunks", doc.Chunks, "records", doc.Records, "reason", doc.Reason)
	}

	if report.Processed == 0 && report.Failed > 0 {
		os.Exit(1)
	}
}
