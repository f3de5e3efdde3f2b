package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/akolanti/FaqSearch/internal/agent"
	"github.com/akolanti/FaqSearch/internal/config"
	"github.com/akolanti/FaqSearch/internal/customHttpClient"
	"github.com/akolanti/FaqSearch/internal/rag"
	"github.com/akolanti/FaqSearch/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/FaqSearch/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/FaqSearch/pkg/logger_i"
)

func main() {

	cfg := config.Load()
	logger_i.Init(cfg.IsProd, cfg.LogLevel)
	var logger = logger_i.NewLogger("main")

	flag.Parse()

	ctx := context.Background()

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

	ragService := rag.NewService(vectorStore, embedder, nil, nil)
	faqAgent, err := agent.New(ragService, cfg.OpenAIAPIKey, cfg.AgentModel, cfg.DefaultTopK)
	if err != nil {
		logger.Error("Agent failed to initialize", "error", err)
		os.Exit(1)
	}

	//one-shot mode when the question comes as arguments
	if flag.NArg() > 0 {
		ask(ctx, faqAgent, strings.Join(flag.Args(), " "), logger)
		return
	}

	fmt.Println("FAQ agent ready. Type a question, or 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}
		ask(ctx, faqAgent, question, logger)
	}
}

func ask(ctx context.Context, faqAgent *agent.Agent, question string, logger *logger_i.Logger) {
	answer, err := faqAgent.Answer(ctx, question)
	if err != nil {
		logger.Error("Agent run failed", "error", err)
		return
	}
	fmt.Printf("Assistant: %s\n\n", answer)
}
