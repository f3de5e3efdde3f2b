package redisStore

import (
	"context"
	"time"

	"github.com/akolanti/FaqSearch/internal/domain/ragError"
	"github.com/akolanti/FaqSearch/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

type Store struct {
	client *redis.Client
	logger *logger_i.Logger
}

// New connects and pings so a dead Redis surfaces at startup instead
// of on the first cached search.
func New(ctx context.Context, addr string, password string) (*Store, error) {
	const op = "redisStore.New"

	client := redis.NewClient(&redis.Options{
		Addr:                  addr,
		Password:              password,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, ragError.Wrap(ragError.KindConfiguration, op, err)
	}

	logger := logger_i.NewLogger("Redis Store")
	logger.Info("Redis connected", "addr", addr)

	return &Store{client: client, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// NewTestStore wraps an existing client, for miniredis-backed tests.
func NewTestStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		logger: logger_i.NewLogger("test redis"),
	}
}
