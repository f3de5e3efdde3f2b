package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	TRACE_ID_KEY = "traceId"

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//external call timeouts
	EmbeddingCallTimeout = 30 * time.Second
	VectorCallTimeout    = 30 * time.Second
	SearchTimeout        = 30 * time.Second

	//outbound http pooling
	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//qdrant
	QdrantPoolSize = 1 //2-5 is preferred for prod according to documentation

	//metadata
	PreviewRunes = 300
)

// Config is built once in main and passed by reference into the services.
// Nothing in here is read from globals after startup.
type Config struct {
	ListenAddr         string
	CorsAllowedOrigins []string //empty means no cross-origin access

	GeminiAPIKey         string
	GoogleEmbeddingModel string
	EmbeddingDimension   int32

	QdrantHost       string
	QdrantPort       int
	QdrantAPIKey     string
	QdrantUseTLS     bool
	QdrantCollection string

	RedisAddr      string //empty disables the search result cache
	RedisPassword  string
	SearchCacheTTL time.Duration

	OpenAIAPIKey string
	AgentModel   string

	TokenEncoding      string
	MaxChunkTokens     int
	ChunkOverlapTokens int
	UpsertBatchSize    int
	IngestWorkers      int

	DefaultTopK    int
	RateLimitRPS   int
	RateLimitBurst int

	IsProd   bool
	LogLevel slog.Level
}

// Load reads .env best-effort, then the environment, falling back to defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr:         envString("LISTEN_ADDR", ":8000"),
		CorsAllowedOrigins: envList("CORS_ALLOWED_ORIGINS"),

		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GoogleEmbeddingModel: envString("GOOGLE_EMBEDDING_MODEL", "gemini-embedding-001"),
		EmbeddingDimension:   int32(envInt("EMBEDDING_DIMENSION", 1536)),

		QdrantHost:       envString("QDRANT_HOST", "localhost"),
		QdrantPort:       envInt("QDRANT_PORT", 6334),
		QdrantAPIKey:     os.Getenv("QDRANT_API_KEY"),
		QdrantUseTLS:     envBool("QDRANT_USE_TLS", false),
		QdrantCollection: envString("QDRANT_COLLECTION", "policy-faq"),

		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		SearchCacheTTL: envDuration("SEARCH_CACHE_TTL", 5*time.Minute),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		AgentModel:   envString("AGENT_MODEL", "gpt-4o"),

		TokenEncoding:      envString("TOKEN_ENCODING", "cl100k_base"),
		MaxChunkTokens:     envInt("MAX_CHUNK_TOKENS", 6000),
		ChunkOverlapTokens: envInt("CHUNK_OVERLAP_TOKENS", 200),
		UpsertBatchSize:    envInt("UPSERT_BATCH_SIZE", 100),
		IngestWorkers:      envInt("INGEST_WORKERS", 4),

		DefaultTopK:    envInt("DEFAULT_TOP_K", 3),
		RateLimitRPS:   envInt("RATE_LIMIT_RPS", 2),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 5),

		IsProd:   envString("APP_ENV", "dev") == "prod",
		LogLevel: parseLogLevel(envString("LOG_LEVEL", "info")),
	}
}

func envString(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
