package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/FaqSearch/internal/config"
	"github.com/akolanti/FaqSearch/internal/customHttpClient"
	"github.com/akolanti/FaqSearch/internal/data/redisStore"
	"github.com/akolanti/FaqSearch/internal/data/searchCache"
	"github.com/akolanti/FaqSearch/internal/mcpServer"
	"github.com/akolanti/FaqSearch/internal/rag"
	"github.com/akolanti/FaqSearch/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/FaqSearch/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/FaqSearch/pkg/logger_i"
)

var httpAddr string

func main() {

	cfg := config.Load()
	logger_i.Init(cfg.IsProd, cfg.LogLevel)
	var logger = logger_i.NewLogger("main")

	flag.StringVar(&httpAddr, "http", "", "serve over streamable HTTP on this address instead of stdio")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	vectorStore, err := qdrantDB.New(cfg)
	if err != nil {
		logger.Error("Qdrant failed to initialize. Shutting down.", "error", err)
		os.Exit(1)
	}
	defer vectorStore.Close()

	embedder, err := googleEmbedding.NewClient(ctx, cfg.GeminiAPIKey, cfg.GoogleEmbeddingModel,
		cfg.EmbeddingDimension, customHttpClient.NewPooledClient())
	if err != nil {
		logger.Error("Embedding client failed to initialize. Shutting down.", "error", err)
		os.Exit(1)
	}

	var cache *searchCache.Cache
	if cfg.RedisAddr != "" {
		store, err := redisStore.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Warn("Redis is offline, search cache disabled", "error", err)
		} else {
			defer store.Close()
			cache = searchCache.New(store, cfg.SearchCacheTTL)
		}
	}

	ragService := rag.NewService(vectorStore, embedder, cache, nil)
	srv := mcpServer.NewServer(ragService, cfg.DefaultTopK)

	if httpAddr != "" {
		err = srv.RunHTTP(ctx, httpAddr)
	} else {
		err = srv.Run(ctx)
	}
	if err != nil {
		logger.Error("MCP server stopped", "error", err)
		os.Exit(1)
	}
}
