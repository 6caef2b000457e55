package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tasklio/tasklio-go/internal/core/ports"
)

var _ ports.TokenStore = (*RedisStore)(nil)

// RedisStore persists the session token in Redis. Meant for server-side
// embedders (bots, sync jobs) that run the SDK without a stable local
// filesystem. The caller owns the client's lifecycle.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore builds a RedisStore. namespace isolates multiple embedders
// on a shared Redis; empty means no prefix.
func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	key := tokenKey
	if namespace != "" {
		key = fmt.Sprintf("%s:%s", namespace, tokenKey)
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Load(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("tokenstore: redis get: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Save(ctx context.Context, token string) error {
	// No TTL: the token's own exp claim bounds its usefulness.
	if err := s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("tokenstore: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("tokenstore: redis del: %w", err)
	}
	return nil
}
