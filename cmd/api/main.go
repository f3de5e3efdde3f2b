// @title           FAQ Search API
// @version         1.0
// @description     Semantic search over company policy documents

// @host      localhost:8000
// @BasePath  /
// @schemes   http https
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
	"github.com/akolanti/FaqSearch/internal/handlers"
	"github.com/akolanti/FaqSearch/internal/middleware"
	"github.com/akolanti/FaqSearch/internal/rag"
	"github.com/akolanti/FaqSearch/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/FaqSearch/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/FaqSearch/internal/server"
	"github.com/akolanti/FaqSearch/pkg/logger_i"
)

var listenAddr string

func main() {

	cfg := config.Load()
	logger_i.Init(cfg.IsProd, cfg.LogLevel)
	var logger = logger_i.NewLogger("main")

	flag.StringVar(&listenAddr, "listen-addr", cfg.ListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	vectorStore, err := qdrantDB.New(cfg)
	if err != nil {
		logger.Error("Qdrant failed to initialize. Shutting down.", "error", err)
		return
	}
	defer vectorStore.Close()

	if err := vectorStore.EnsureCollection(serviceContext); err != nil {
		logger.Error("Could not ensure the collection exists", "error", err)
		return
	}

	embedder, err := googleEmbedding.NewClient(serviceContext, cfg.GeminiAPIKey, cfg.GoogleEmbeddingModel,
		cfg.EmbeddingDimension, customHttpClient.NewPooledClient())
	if err != nil {
		logger.Error("Embedding client failed to initialize. Shutting down.", "error", err)
		return
	}

	//the search cache is optional, the service runs fine without redis
	var cache *searchCache.Cache
	if cfg.RedisAddr != "" {
		store, err := redisStore.New(serviceContext, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Warn("Redis is offline, search cache disabled", "error", err)
		} else {
			defer store.Close()
			cache = searchCache.New(store, cfg.SearchCacheTTL)
		}
	}

	ragService := rag.NewService(vectorStore, embedder, cache, nil)
	handler := handlers.NewSearchHandler(ragService, cfg.DefaultTopK)
	chain := middleware.New(cfg)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, handler, chain)

	<-stopExecution
	logger.Info("Server stopped")
}
